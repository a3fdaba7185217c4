package router

import "github.com/gin-gonic/gin"

// Registry collects modules and mounts them at the engine root.
type Registry struct {
	Engine  *gin.Engine
	Root    *gin.RouterGroup
	modules []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, Root: engine.Group("/")}
}

func (r *Registry) Add(mods ...Module) {
	r.modules = append(r.modules, mods...)
}

func (r *Registry) RegisterAll() {
	for _, m := range r.modules {
		m.Register(r.Root)
	}
}
