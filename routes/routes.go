package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KeshavX3/ERP-2/controllers"
	"github.com/KeshavX3/ERP-2/middleware"
	"github.com/KeshavX3/ERP-2/services"
)

// Controllers bundles every handler the router mounts.
type Controllers struct {
	Auth     *controllers.AuthController
	Product  *controllers.ProductController
	Category *controllers.CategoryController
	Brand    *controllers.BrandController
	Cart     *controllers.CartController
	Order    *controllers.OrderController
	Upload   *controllers.UploadController
}

// Register mounts the API surface. Catalog reads are public; everything
// else requires a bearer token, and operator paths also require admin.
func Register(r *gin.Engine, tokens *services.TokenService, c Controllers) {
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	authed := middleware.Auth(tokens)
	admin := middleware.RequireAdmin()

	auth := api.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
		auth.POST("/verify-email", c.Auth.VerifyEmail)
		auth.POST("/resend-otp", c.Auth.ResendOTP)
		auth.POST("/google", c.Auth.GoogleSignIn)
		auth.GET("/me", authed, c.Auth.Me)
		auth.PUT("/profile", authed, c.Auth.UpdateProfile)
		auth.POST("/logout", authed, c.Auth.Logout)
	}

	products := api.Group("/products")
	{
		products.GET("", c.Product.GetProducts)
		products.GET("/:id", c.Product.GetProductByID)
		products.POST("", authed, admin, c.Product.CreateProduct)
		products.PUT("/:id", authed, admin, c.Product.UpdateProduct)
		products.DELETE("/:id", authed, admin, c.Product.DeleteProduct)
		products.GET("/stats/summary", authed, admin, c.Product.GetProductStats)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", c.Category.GetCategories)
		categories.GET("/:id", c.Category.GetCategoryByID)
		categories.POST("", authed, admin, c.Category.CreateCategory)
		categories.PUT("/:id", authed, admin, c.Category.UpdateCategory)
		categories.DELETE("/:id", authed, admin, c.Category.DeleteCategory)
	}

	brands := api.Group("/brands")
	{
		brands.GET("", c.Brand.GetBrands)
		brands.GET("/:id", c.Brand.GetBrandByID)
		brands.POST("", authed, admin, c.Brand.CreateBrand)
		brands.PUT("/:id", authed, admin, c.Brand.UpdateBrand)
		brands.DELETE("/:id", authed, admin, c.Brand.DeleteBrand)
	}

	cart := api.Group("/cart", authed)
	{
		cart.GET("", c.Cart.GetCart)
		cart.POST("/items", c.Cart.AddItem)
		cart.PATCH("/items/:productId", c.Cart.SetQuantity)
		cart.DELETE("/items/:productId", c.Cart.RemoveItem)
		cart.DELETE("", c.Cart.ClearCart)
	}

	orders := api.Group("/orders", authed)
	{
		orders.POST("", c.Order.CreateOrder)
		orders.POST("/quote", c.Order.QuoteOrder)
		orders.GET("", c.Order.GetOrders)
		orders.GET("/stats/summary", c.Order.GetOrderStats)
		orders.GET("/:orderId", c.Order.GetOrderByID)
		orders.PATCH("/:orderId/status", admin, c.Order.UpdateOrderStatus)
		orders.PATCH("/:orderId/cancel", c.Order.CancelOrder)
	}

	if c.Upload != nil {
		api.GET("/uploads/presign", authed, admin, c.Upload.PresignUpload)
	}
}
