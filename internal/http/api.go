package http

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"rentledger/internal/auth"
	"rentledger/internal/domain"
	"rentledger/internal/service"
	"rentledger/internal/storage"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	registry   service.RegistryService
	rental     service.RentalService
	accounting service.AccountingService
	query      service.QueryService
	accounts   auth.AccountService
	tokens     *auth.TokenManager
	authz      *auth.Authorizer
	storage    storage.Service
}

func NewHandler(
	registry service.RegistryService,
	rental service.RentalService,
	accounting service.AccountingService,
	query service.QueryService,
	accounts auth.AccountService,
	tokens *auth.TokenManager,
	authz *auth.Authorizer,
	store storage.Service,
) *Handler {
	return &Handler{
		registry:   registry,
		rental:     rental,
		accounting: accounting,
		query:      query,
		accounts:   accounts,
		tokens:     tokens,
		authz:      authz,
		storage:    store,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.POST("/auth/signup", h.signup)
		api.POST("/auth/login", h.login)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}

	authed := api.Group("")
	authed.Use(auth.Middleware(h.tokens))
	{
		authed.POST("/users", h.registerUser)
		authed.GET("/users/me", h.getUser)
		authed.POST("/users/me/rentals", h.checkOut)
		authed.DELETE("/users/me/rentals", h.checkIn)
		authed.POST("/users/me/deposits", h.deposit)
		authed.POST("/users/me/payments", h.makePayment)
		authed.POST("/users/me/withdrawals", h.withdrawBalance)

		authed.POST("/cars", h.addCar)
		authed.GET("/cars", h.listCarsByStatus)
		authed.GET("/cars/count", h.carCount)
		authed.GET("/cars/:id", h.getCar)
		authed.PUT("/cars/:id", h.editCarMetadata)
		authed.PUT("/cars/:id/status", h.editCarStatus)
		authed.POST("/cars/:id/image", h.uploadCarImage)

		authed.GET("/ledger/balance", h.ledgerBalance)
		authed.GET("/ledger/payments", h.totalPayments)
		authed.POST("/ledger/withdrawals", h.withdrawOwnerBalance)

		authed.GET("/owner", h.getOwner)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

type signupRequest struct {
	Username     string `json:"username" binding:"required"`
	Password     string `json:"password" binding:"required"`
	SignupSecret string `json:"signup_secret"`
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.accounts.Signup(c.Request.Context(), req.Username, req.Password, req.SignupSecret)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrAccountAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, auth.ErrInvalidSignupSecret):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": account.ID, "username": account.Username})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.accounts.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.tokens.Issue(account.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "id": account.ID})
}

type registerUserRequest struct {
	Name    string `json:"name" binding:"required"`
	Surname string `json:"surname" binding:"required"`
}

func (h *Handler) registerUser(c *gin.Context) {
	var req registerUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.registry.RegisterUser(c.Request.Context(), auth.CallerID(c), req.Name, req.Surname)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userToResponse(user))
}

func (h *Handler) getUser(c *gin.Context) {
	user, err := h.registry.GetUser(c.Request.Context(), auth.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

type checkOutRequest struct {
	CarID int64 `json:"car_id" binding:"required"`
}

func (h *Handler) checkOut(c *gin.Context) {
	var req checkOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.rental.CheckOut(c.Request.Context(), auth.CallerID(c), req.CarID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rented_car_id": req.CarID})
}

func (h *Handler) checkIn(c *gin.Context) {
	user, err := h.rental.CheckIn(c.Request.Context(), auth.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

type amountRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

func (h *Handler) deposit(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accounting.Deposit(c.Request.Context(), auth.CallerID(c), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

func (h *Handler) makePayment(c *gin.Context) {
	user, err := h.accounting.MakePayment(c.Request.Context(), auth.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

func (h *Handler) withdrawBalance(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accounting.WithdrawBalance(c.Request.Context(), auth.CallerID(c), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

type carRequest struct {
	Name     string `json:"name" binding:"required"`
	ImageURL string `json:"img_url"`
	RentFee  int64  `json:"rent_fee" binding:"required"`
	SaleFee  int64  `json:"sale_fee"`
}

func (h *Handler) addCar(c *gin.Context) {
	var req carRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	car, err := h.registry.AddCar(c.Request.Context(), auth.CallerID(c), req.Name, req.ImageURL, req.RentFee, req.SaleFee)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.carView(c, *car))
}

func (h *Handler) listCarsByStatus(c *gin.Context) {
	status := domain.CarStatus(c.DefaultQuery("status", string(domain.CarStatusAvailable)))
	if !domain.ValidCarStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid car status"})
		return
	}

	cars, err := h.query.CarsByStatus(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]CarResponse, len(cars))
	for i := range cars {
		resp[i] = h.carView(c, cars[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) carCount(c *gin.Context) {
	count, err := h.query.CarCount(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *Handler) getCar(c *gin.Context) {
	id, ok := carIDParam(c)
	if !ok {
		return
	}

	car, err := h.registry.GetCar(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.carView(c, *car))
}

func (h *Handler) editCarMetadata(c *gin.Context) {
	id, ok := carIDParam(c)
	if !ok {
		return
	}

	var req carRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	car, err := h.registry.EditCarMetadata(c.Request.Context(), auth.CallerID(c), id, req.Name, req.ImageURL, req.RentFee, req.SaleFee)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.carView(c, *car))
}

type carStatusRequest struct {
	Status domain.CarStatus `json:"status" binding:"required"`
}

func (h *Handler) editCarStatus(c *gin.Context) {
	id, ok := carIDParam(c)
	if !ok {
		return
	}

	var req carStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.registry.EditCarStatus(c.Request.Context(), auth.CallerID(c), id, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}

func (h *Handler) uploadCarImage(c *gin.Context) {
	// owner check must precede the storage write: a rejected caller may not
	// leave any externally visible effect
	if err := h.authz.RequireOwner(c.Request.Context(), auth.CallerID(c)); err != nil {
		respondError(c, err)
		return
	}

	if h.storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage service not configured"})
		return
	}

	id, ok := carIDParam(c)
	if !ok {
		return
	}

	car, err := h.registry.GetCar(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	key := fmt.Sprintf("car-%d%s", id, filepath.Ext(fileHeader.Filename))
	location, err := h.storage.UploadImage(c.Request.Context(), key, file, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.registry.EditCarMetadata(c.Request.Context(), auth.CallerID(c), id, car.Name, location, car.RentFee, car.SaleFee)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.carView(c, *updated))
}

func (h *Handler) ledgerBalance(c *gin.Context) {
	total, err := h.accounting.TotalHeldValue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": total})
}

func (h *Handler) totalPayments(c *gin.Context) {
	total, err := h.accounting.TotalPayments(c.Request.Context(), auth.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collected_payments": total})
}

func (h *Handler) withdrawOwnerBalance(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	remaining, err := h.accounting.WithdrawOwnerBalance(c.Request.Context(), auth.CallerID(c), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collected_payments": remaining})
}

func (h *Handler) getOwner(c *gin.Context) {
	ownerID, err := h.authz.OwnerID(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"owner": ownerID})
}

func carIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid car id"})
		return 0, false
	}
	return id, true
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrAlreadyRegistered),
		errors.Is(err, domain.ErrCarNotAvailable),
		errors.Is(err, domain.ErrAlreadyRenting),
		errors.Is(err, domain.ErrNotRenting),
		errors.Is(err, domain.ErrOutstandingDebt),
		errors.Is(err, domain.ErrNoDebt),
		errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrInsufficientPool):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type UserResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Surname     string  `json:"surname"`
	Balance     int64   `json:"balance"`
	Debt        int64   `json:"debt"`
	RentedCarID int64   `json:"rented_car_id"`
	RentStart   *string `json:"rent_start,omitempty"`
	RideMinutes *int64  `json:"ride_minutes,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type CarResponse struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	ImageURL  string           `json:"img_url"`
	RentFee   int64            `json:"rent_fee"`
	SaleFee   int64            `json:"sale_fee"`
	Status    domain.CarStatus `json:"status"`
	RenterID  string           `json:"renter_id,omitempty"`
	CreatedAt string           `json:"created_at"`
	UpdatedAt string           `json:"updated_at"`
}

func userToResponse(user *domain.User) UserResponse {
	resp := UserResponse{
		ID:          user.ID,
		Name:        user.Name,
		Surname:     user.Surname,
		Balance:     user.Balance,
		Debt:        user.Debt,
		RentedCarID: user.RentedCarID,
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   user.UpdatedAt.Format(time.RFC3339),
	}
	if user.RentStart != nil {
		v := user.RentStart.Format(time.RFC3339)
		resp.RentStart = &v
		// informational only, no effect on the accrued debt
		minutes := int64(time.Since(*user.RentStart).Minutes())
		resp.RideMinutes = &minutes
	}
	return resp
}

// imageURLTTL bounds how long a presigned car image link stays valid.
const imageURLTTL = 15 * time.Minute

// carView maps a car for a response, swapping a stored s3:// location for a
// presigned URL the caller can actually render. On presign failure the raw
// location is returned so the response still identifies the object.
func (h *Handler) carView(c *gin.Context, car domain.Car) CarResponse {
	resp := carToResponse(car)
	if h.storage != nil && strings.HasPrefix(car.ImageURL, "s3://") {
		if url, err := h.storage.ImageURL(c.Request.Context(), car.ImageURL, imageURLTTL); err == nil {
			resp.ImageURL = url
		}
	}
	return resp
}

func carToResponse(car domain.Car) CarResponse {
	return CarResponse{
		ID:        car.ID,
		Name:      car.Name,
		ImageURL:  car.ImageURL,
		RentFee:   car.RentFee,
		SaleFee:   car.SaleFee,
		Status:    car.Status,
		RenterID:  car.RenterID,
		CreatedAt: car.CreatedAt.Format(time.RFC3339),
		UpdatedAt: car.UpdatedAt.Format(time.RFC3339),
	}
}
