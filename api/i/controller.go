package i

import "github.com/gin-gonic/gin"

// Controller registers its routes on the shared router, split by
// access level.
type Controller interface {
	RegisterPublic(*gin.RouterGroup)
	RegisterProtected(*gin.RouterGroup)
}
