package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"innoventory-ws/internal/model"
	"innoventory-ws/internal/repository"
	"innoventory-ws/internal/service"
)

type TransactionHandler struct {
	service service.LedgerService
}

func NewTransactionHandler(s service.LedgerService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// GetTransactions lists transactions newest first.
// Query params: product_id, type (IN|OUT), from, to (YYYY-MM-DD)
func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	var filter repository.TransactionFilter

	if raw := c.Query("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "Invalid product_id")
		}
		filter.ProductID = &id
	}
	if raw := strings.ToUpper(c.Query("type")); raw != "" {
		if raw != string(model.TxIn) && raw != string(model.TxOut) {
			return badRequest(c, "type must be IN or OUT")
		}
		filter.Type = model.TransactionType(raw)
	}
	for name, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return badRequest(c, "Invalid "+name+" date, use YYYY-MM-DD")
		}
		*dst = &day
	}

	transactions, err := h.service.GetAllTransactions(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(transactions)
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid transaction ID")
	}
	tx, err := h.service.GetTransactionByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tx)
}

func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var req service.RecordTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	tx, err := h.service.Record(c.UserContext(), req, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Transaction recorded", "data": tx})
}

// DeleteTransaction reverses the stock effect and removes the transaction.
func (h *TransactionHandler) DeleteTransaction(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid transaction ID")
	}
	if err := h.service.Reverse(c.UserContext(), id, actor(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Transaction reversed"})
}
