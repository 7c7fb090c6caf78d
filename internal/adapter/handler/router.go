package handler

import "net/http"

// NewRouter wires all routes onto one mux.
func NewRouter(h *HTTPHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.HealthCheck)

	mux.HandleFunc("POST /sales", h.CreateSale)
	mux.HandleFunc("GET /sales", h.ListSales)
	mux.HandleFunc("GET /sales/{id}", h.GetSale)

	mux.HandleFunc("POST /customers", h.CreateCustomer)
	mux.HandleFunc("GET /customers", h.ListCustomers)
	mux.HandleFunc("GET /customers/{id}", h.GetCustomer)
	mux.HandleFunc("PUT /customers/{id}", h.UpdateCustomer)
	mux.HandleFunc("DELETE /customers/{id}", h.DeleteCustomer)

	mux.HandleFunc("POST /products", h.CreateProduct)
	mux.HandleFunc("GET /products", h.ListProducts)
	mux.HandleFunc("GET /products/{id}", h.GetProduct)
	mux.HandleFunc("PUT /products/{id}", h.UpdateProduct)
	mux.HandleFunc("DELETE /products/{id}", h.DeleteProduct)

	mux.HandleFunc("GET /inventory/{productID}", h.GetInventory)
	mux.HandleFunc("PUT /inventory/{productID}", h.PutInventory)

	mux.HandleFunc("POST /mirror/customers", h.MirrorCreateCustomer)
	mux.HandleFunc("GET /mirror/customers", h.MirrorListCustomers)
	mux.HandleFunc("POST /mirror/products", h.MirrorCreateProduct)
	mux.HandleFunc("GET /mirror/products", h.MirrorListProducts)
	mux.HandleFunc("POST /mirror/sales", h.MirrorCreateSale)
	mux.HandleFunc("GET /mirror/sales/{id}", h.MirrorGetSale)

	return mux
}
