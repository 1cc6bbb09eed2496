package httpx

import "github.com/gin-gonic/gin"

// NewRouter builds the gin engine with all order routes mounted.
func NewRouter(handler *Handler) *gin.Engine {
	router := gin.Default()
	v1 := router.Group("/v1")
	{
		v1.POST("/orders", handler.CreateOrder)
		v1.GET("/orders", handler.ListOrders)
		v1.GET("/orders/:orderId", handler.GetOrder)
		v1.PATCH("/orders/:orderId/status", handler.ChangeOrderStatus)
	}
	return router
}
