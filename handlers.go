package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"bitbucket.org/communitydesk/hoa_backend/engine"
	"bitbucket.org/communitydesk/hoa_backend/models"
	"bitbucket.org/communitydesk/hoa_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondError maps domain errors onto HTTP statuses. Validation problems are
// 422 with a structured body so clients can highlight the offending field.
func respondError(c *gin.Context, err error) {
	var validationErr *engine.ValidationError
	var consistencyErr *engine.ConsistencyError
	var overpaymentErr *engine.OverpaymentError
	var bindingErrs validator.ValidationErrors

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": gin.H{
				"field":   validationErr.Field,
				"index":   validationErr.Index,
				"message": validationErr.Message,
			},
		})
	case errors.As(err, &consistencyErr):
		c.JSON(http.StatusConflict, gin.H{"error": consistencyErr.Message})
	case errors.As(err, &overpaymentErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":       overpaymentErr.Error(),
			"balance_due": overpaymentErr.BalanceDue,
		})
	case errors.As(err, &bindingErrs):
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

func pathId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func loginHandler() gin.HandlerFunc {
	type loginInput struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	return func(c *gin.Context) {
		var input loginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		info, err := models.Login(c.Request.Context(), input.Username, input.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, info)
	}
}

// meHandler returns the authenticated user's own record.
func meHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := utils.GetUserIdFromContext(c.Request.Context())
		if !ok || userId <= 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		user, err := models.GetUserById(c.Request.Context(), userId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func createInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewInvoice
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		invoice, err := models.CreateInvoice(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, invoice)
	}
}

func updateInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewInvoice
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		invoice, err := models.UpdateInvoice(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, invoice)
	}
}

func getInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		invoice, err := models.GetInvoice(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		balance, err := invoice.BalanceDue()
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"invoice": invoice, "balance_due": balance})
	}
}

func deleteInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		invoice, err := models.DeleteInvoice(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, invoice)
	}
}

func updateInvoiceStatusHandler() gin.HandlerFunc {
	type statusInput struct {
		Status models.InvoiceStatus `json:"status" binding:"required"`
	}
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input statusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		invoice, err := models.UpdateStatusInvoice(c.Request.Context(), id, input.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, invoice)
	}
}

func verifyInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		if err := models.VerifyInvoiceTotals(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "consistent"})
	}
}

func paginateInvoicesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var limit *int
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = &n
			}
		}
		var after, invoiceNumber *string
		if v := c.Query("after"); v != "" {
			after = &v
		}
		if v := c.Query("invoice_number"); v != "" {
			invoiceNumber = &v
		}
		var unitId *int
		if v := c.Query("unit_id"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				unitId = &n
			}
		}
		var status *models.InvoiceStatus
		if v := c.Query("status"); v != "" {
			s := models.InvoiceStatus(v)
			status = &s
		}
		var startDate, endDate *time.Time
		if v := c.Query("start_date"); v != "" {
			if t, err := time.Parse("2006-01-02", v); err == nil {
				startDate = &t
			}
		}
		if v := c.Query("end_date"); v != "" {
			if t, err := time.Parse("2006-01-02", v); err == nil {
				endDate = &t
			}
		}

		connection, err := models.PaginateInvoice(c.Request.Context(), limit, after,
			invoiceNumber, unitId, status, startDate, endDate)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, connection)
	}
}

func applyPaymentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewInvoicePayment
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		payment, err := models.ApplyInvoicePayment(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, payment)
	}
}

func reversePaymentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		payment, err := models.ReverseInvoicePayment(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, payment)
	}
}

func listInvoicePaymentsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		payments, err := models.GetInvoicePayments(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, payments)
	}
}

func createUnitHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewUnit
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		unit, err := models.CreateUnit(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, unit)
	}
}

func updateUnitHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewUnit
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		unit, err := models.UpdateUnit(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, unit)
	}
}

func getUnitHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		unit, err := models.GetUnit(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, unit)
	}
}

func deactivateUnitHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		unit, err := models.DeactivateUnit(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, unit)
	}
}

func paginateUnitsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 0
		if v := c.Query("limit"); v != "" {
			limit, _ = strconv.Atoi(v)
		}
		var after, searchKey *string
		if v := c.Query("after"); v != "" {
			after = &v
		}
		if v := c.Query("search"); v != "" {
			searchKey = &v
		}
		edges, pageInfo, err := models.PaginateUnit(c.Request.Context(), limit, after, searchKey)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"edges": edges, "pageInfo": pageInfo})
	}
}

func createResidentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewResident
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		resident, err := models.CreateResident(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, resident)
	}
}

func updateResidentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewResident
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		resident, err := models.UpdateResident(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resident)
	}
}

func deleteResidentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		resident, err := models.DeleteResident(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resident)
	}
}

func createChargeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewCharge
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		charge, err := models.CreateCharge(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, charge)
	}
}

func updateChargeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewCharge
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		charge, err := models.UpdateCharge(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, charge)
	}
}

func deleteChargeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		charge, err := models.DeleteCharge(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, charge)
	}
}

func paginateChargesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 0
		if v := c.Query("limit"); v != "" {
			limit, _ = strconv.Atoi(v)
		}
		var after, searchKey *string
		if v := c.Query("after"); v != "" {
			after = &v
		}
		if v := c.Query("search"); v != "" {
			searchKey = &v
		}
		edges, pageInfo, err := models.PaginateCharge(c.Request.Context(), limit, after, searchKey)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"edges": edges, "pageInfo": pageInfo})
	}
}
