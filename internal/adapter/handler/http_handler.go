package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/storewise/sales-service/internal/core/domain"
	"github.com/storewise/sales-service/internal/obs"
	"github.com/storewise/sales-service/internal/port"
)

// MirrorBackend is what the handler needs from the document mirror:
// catalog documents plus the weaker SaleStore implementation.
type MirrorBackend interface {
	port.MirrorStore
	port.SaleStore
}

type HTTPHandler struct {
	sales   port.SaleStore
	catalog port.CatalogRepository
	mirror  MirrorBackend
}

func NewHTTPHandler(sales port.SaleStore, catalog port.CatalogRepository, mirror MirrorBackend) *HTTPHandler {
	return &HTTPHandler{sales: sales, catalog: catalog, mirror: mirror}
}

type customerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type productRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    string           `json:"category"`
}

type saleRequest struct {
	CustomerID string               `json:"customer_id"`
	Items      []domain.ItemRequest `json:"items"`
}

type inventoryRequest struct {
	QuantityAvailable *int `json:"quantity_available"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sale, err := h.sales.CreateSale(r.Context(), req.CustomerID, req.Items)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sale)
}

func (h *HTTPHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.sales.ListSales(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if sales == nil {
		sales = []domain.Sale{}
	}
	writeJSON(w, http.StatusOK, sales)
}

func (h *HTTPHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	sale, err := h.sales.GetSale(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sale)
}

func (h *HTTPHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validateCustomer(req); err != nil {
		h.writeError(w, err)
		return
	}
	customer, err := h.catalog.CreateCustomer(r.Context(), domain.Customer{
		Name: req.Name, Email: req.Email, Phone: req.Phone, Address: req.Address,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

func (h *HTTPHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.catalog.ListCustomers(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *HTTPHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.catalog.GetCustomer(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *HTTPHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validateCustomer(req); err != nil {
		h.writeError(w, err)
		return
	}
	customer, err := h.catalog.UpdateCustomer(r.Context(), domain.Customer{
		ID: r.PathValue("id"), Name: req.Name, Email: req.Email, Phone: req.Phone, Address: req.Address,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *HTTPHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteCustomer(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validateProduct(req); err != nil {
		h.writeError(w, err)
		return
	}
	product, err := h.catalog.CreateProduct(r.Context(), domain.Product{
		Name: req.Name, Description: req.Description, Price: *req.Price, Category: req.Category,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validateProduct(req); err != nil {
		h.writeError(w, err)
		return
	}
	product, err := h.catalog.UpdateProduct(r.Context(), domain.Product{
		ID: r.PathValue("id"), Name: req.Name, Description: req.Description,
		Price: *req.Price, Category: req.Category,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	rec, err := h.catalog.GetInventory(r.Context(), r.PathValue("productID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if rec == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no inventory record for product"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *HTTPHandler) PutInventory(w http.ResponseWriter, r *http.Request) {
	var req inventoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.QuantityAvailable == nil {
		h.writeError(w, &domain.ValidationError{Field: "quantity_available", Reason: "required"})
		return
	}
	if *req.QuantityAvailable < 0 {
		h.writeError(w, &domain.ValidationError{Field: "quantity_available", Reason: "must not be negative"})
		return
	}
	rec, err := h.catalog.UpsertInventory(r.Context(), r.PathValue("productID"), *req.QuantityAvailable)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *HTTPHandler) MirrorCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validateCustomer(req); err != nil {
		h.writeError(w, err)
		return
	}
	customer, err := h.mirror.CreateCustomer(r.Context(), domain.Customer{
		Name: req.Name, Email: req.Email, Phone: req.Phone, Address: req.Address,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

func (h *HTTPHandler) MirrorListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.mirror.ListCustomers(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *HTTPHandler) MirrorCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validateProduct(req); err != nil {
		h.writeError(w, err)
		return
	}
	product, err := h.mirror.CreateProduct(r.Context(), domain.Product{
		Name: req.Name, Description: req.Description, Price: *req.Price, Category: req.Category,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *HTTPHandler) MirrorListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.mirror.ListProducts(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *HTTPHandler) MirrorCreateSale(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sale, err := h.mirror.CreateSale(r.Context(), req.CustomerID, req.Items)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sale)
}

func (h *HTTPHandler) MirrorGetSale(w http.ResponseWriter, r *http.Request) {
	sale, err := h.mirror.GetSale(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sale)
}

func validateCustomer(req customerRequest) error {
	if req.Name == "" {
		return &domain.ValidationError{Field: "name", Reason: "required"}
	}
	if req.Email == "" {
		return &domain.ValidationError{Field: "email", Reason: "required"}
	}
	return nil
}

func validateProduct(req productRequest) error {
	if req.Name == "" {
		return &domain.ValidationError{Field: "name", Reason: "required"}
	}
	if req.Price == nil {
		return &domain.ValidationError{Field: "price", Reason: "required"}
	}
	if req.Price.IsNegative() {
		return &domain.ValidationError{Field: "price", Reason: "must not be negative"}
	}
	return nil
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Error()})
	case errors.Is(err, domain.ErrEmailExists):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "email already exists"})
	case errors.Is(err, domain.ErrCustomerNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrSaleNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		obs.Logger.Error("request_failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
