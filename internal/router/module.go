package router

import "github.com/gin-gonic/gin"

// Module is one routable feature area (accounts, documents, activities).
// Each module attaches its own routes and any route-local middleware to
// the group it is given.
type Module interface {
	Register(rg *gin.RouterGroup)
}
