package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-service/apperrors"
	"restaurant-service/controllers"
	"restaurant-service/middleware"
	"restaurant-service/repository"
	"restaurant-service/services"
)

// Dependencies are built once in main and shared by every request.
type Dependencies struct {
	Store          *repository.Store
	Tokens         *services.TokenService
	Payments       services.PaymentProvider
	Checkout       controllers.Checkout
	Currency       string
	AllowedOrigins []string
	Logger         *zap.Logger
}

// NewRouter builds the gin engine with the ambient middleware chain and
// every API route.
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(apperrors.Recovery(deps.Logger))
	r.Use(middleware.CORS(deps.AllowedOrigins))
	r.Use(apperrors.ErrorMiddleware(deps.Logger))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "server is running...")
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	RegisterRoutes(r, deps)
	return r
}

// RegisterRoutes mounts the API routes and their auth middleware on r.
// NewRouter calls it after installing the ambient middleware chain.
func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	verifyJWT := middleware.VerifyJWT(deps.Tokens)
	verifyAdmin := middleware.VerifyAdmin(deps.Store.Users)

	ac := controllers.NewAuthController(deps.Tokens)
	mc := controllers.NewMenuController(deps.Store)
	cc := controllers.NewCartController(deps.Store)
	pc := controllers.NewPaymentController(deps.Payments, deps.Checkout, deps.Currency, deps.Logger)
	uc := controllers.NewUserController(deps.Store)

	r.POST("/jwt", ac.IssueToken)

	r.GET("/menu", mc.GetMenu)
	r.POST("/menu", verifyJWT, verifyAdmin, mc.CreateMenuItem)
	r.DELETE("/menu/:id", verifyJWT, verifyAdmin, mc.DeleteMenuItem)

	r.GET("/reviews", mc.GetReviews)

	r.POST("/carts", cc.AddToCart)
	r.GET("/carts", verifyJWT, cc.GetCarts)
	r.DELETE("/carts/:id", cc.DeleteCartEntry)

	r.POST("/create-payment-intent", verifyJWT, pc.CreatePaymentIntent)
	r.POST("/payment", verifyJWT, pc.RecordPayment)

	users := r.Group("/users")
	users.POST("", uc.CreateUser)
	users.GET("", verifyJWT, verifyAdmin, uc.ListUsers)
	users.PATCH("/admin/:id", uc.MakeAdmin)
	users.DELETE("/admin/:id", uc.DeleteUser)
	users.GET("/admin/:email", verifyJWT, uc.CheckAdmin)
}
