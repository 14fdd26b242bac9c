// Package gatewaytest runs an in-process fake of the SmartMediShop REST API.
package gatewaytest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"smartmedishop-storefront/internal/model"

	"github.com/go-chi/chi/v5"
)

type account struct {
	password string
	token    string
	user     model.User
}

// Server is a fake API. Exported fields must be set before the requests
// that read them.
type Server struct {
	srv *httptest.Server

	mu           sync.Mutex
	products     map[int64]model.Product
	accounts     map[string]*account
	movements    []model.StockMovement
	purchases    []model.PurchaseRecord
	drafts       []model.TransactionDraft
	nextTxID     int64
	listCalls    int
	Verdict      model.TransactionResult
	Alerts       []model.FraudAlert
	StockAlerts  map[int64][]model.StockAlert
	FailMovement map[int64]bool
	FailPurchase bool
	FailSubmit   bool
}

// New starts a fake API that is closed with the test.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		products:     map[int64]model.Product{},
		accounts:     map[string]*account{},
		nextTxID:     1000,
		Verdict:      model.TransactionResult{Status: "APPROVED", RiskLevel: "LOW", FraudScore: 0.05},
		StockAlerts:  map[int64][]model.StockAlert{},
		FailMovement: map[int64]bool{},
	}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/auth/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "UP"})
		})
		r.Post("/auth/login", s.login)
		r.Post("/auth/register", s.register)
		r.Get("/auth/profile", s.authed(s.profile))
		r.Get("/stock/products", s.authed(s.listProducts))
		r.Post("/stock/products", s.role(s.createProduct, model.RoleAdmin))
		r.Get("/stock/products/{id}", s.authed(s.getProduct))
		r.Put("/stock/products/{id}", s.role(s.updateProduct, model.RoleAdmin))
		r.Get("/stock/alerts/product/{id}", s.authed(s.productAlerts))
		r.Post("/stock/movements", s.authed(s.recordMovement))
		r.Get("/stock/movements/product/{id}", s.authed(s.listMovements))
		r.Post("/transactions", s.authed(s.submit))
		r.Get("/transactions/my-transactions", s.authed(s.myTransactions))
		r.Get("/transactions/statistics", s.authed(s.myStatistics))
		r.Get("/transactions/statistics/all", s.role(s.allStatistics, model.RoleAdmin, model.RoleFraudAnalyst))
		r.Post("/purchases/record", s.authed(s.recordPurchase))
		r.Get("/purchases/my-purchases", s.authed(s.myPurchases))
		r.Get("/fraud/alerts", s.authed(s.alerts))
		r.Get("/fraud/alerts/{id}", s.role(s.alert, model.RoleAdmin, model.RoleFraudAnalyst))
		r.Put("/fraud/alerts/{id}/resolve", s.role(s.resolveAlert, model.RoleFraudAnalyst))
		r.Get("/fraud/statistics", s.role(s.fraudStatistics, model.RoleAdmin, model.RoleFraudAnalyst))
		r.Get("/users", s.role(s.listUsers, model.RoleAdmin, model.RoleFraudAnalyst))
		r.Get("/users/statistics", s.role(s.userStatistics, model.RoleAdmin, model.RoleFraudAnalyst))
		r.Get("/users/{id}", s.role(s.getUser, model.RoleAdmin, model.RoleFraudAnalyst))
		r.Put("/users/{id}/activate", s.role(s.setActive(true), model.RoleAdmin))
		r.Put("/users/{id}/deactivate", s.role(s.setActive(false), model.RoleAdmin))
	})

	s.srv = httptest.NewServer(r)
	t.Cleanup(s.srv.Close)
	return s
}

// BaseURL is the API root to configure clients with.
func (s *Server) BaseURL() string { return s.srv.URL + "/api" }

// AddAccount registers a user that can log in with username/password and
// receives token.
func (s *Server) AddAccount(user model.User, password, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[user.Username] = &account{password: password, token: token, user: user}
}

// SetProduct creates or replaces a product.
func (s *Server) SetProduct(p model.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

// DeleteProduct removes a product.
func (s *Server) DeleteProduct(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, id)
}

// Product returns the current state of a product.
func (s *Server) Product(id int64) model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id]
}

// Movements returns the recorded stock movements.
func (s *Server) Movements() []model.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.StockMovement(nil), s.movements...)
}

// Purchases returns the recorded purchase records.
func (s *Server) Purchases() []model.PurchaseRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.PurchaseRecord(nil), s.purchases...)
}

// Drafts returns the submitted transaction drafts.
func (s *Server) Drafts() []model.TransactionDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.TransactionDraft(nil), s.drafts...)
}

// ListCalls counts catalog listings served.
func (s *Server) ListCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) authed(next func(http.ResponseWriter, *http.Request, *account)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		var acc *account
		for _, a := range s.accounts {
			if token != "" && a.token == token {
				acc = a
				break
			}
		}
		s.mu.Unlock()
		if acc == nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r, acc)
	}
}

// role is authed restricted to the given user types.
func (s *Server) role(next func(http.ResponseWriter, *http.Request, *account), roles ...string) http.HandlerFunc {
	return s.authed(func(w http.ResponseWriter, r *http.Request, acc *account) {
		for _, role := range roles {
			if acc.user.UserType == role {
				next(w, r, acc)
				return
			}
		}
		writeError(w, http.StatusForbidden, "Access denied")
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	_ = json.NewDecoder(r.Body).Decode(&creds)

	s.mu.Lock()
	acc, ok := s.accounts[creds.Username]
	s.mu.Unlock()
	if !ok || acc.password != creds.Password {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	writeJSON(w, http.StatusOK, model.AuthResponse{
		Token: acc.token, Type: "Bearer", Username: acc.user.Username,
		Email: acc.user.Email, UserType: acc.user.UserType, UserID: acc.user.ID,
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var reg model.Registration
	_ = json.NewDecoder(r.Body).Decode(&reg)

	s.mu.Lock()
	if _, exists := s.accounts[reg.Username]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, "Username already exists")
		return
	}
	id := int64(len(s.accounts) + 1)
	acc := &account{
		password: reg.Password,
		token:    "tok-" + reg.Username,
		user:     model.User{ID: id, Username: reg.Username, Email: reg.Email, UserType: model.RoleCustomer, IsActive: true},
	}
	s.accounts[reg.Username] = acc
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, model.AuthResponse{
		Token: acc.token, Type: "Bearer", Username: acc.user.Username, UserType: acc.user.UserType, UserID: id,
	})
}

func (s *Server) profile(w http.ResponseWriter, _ *http.Request, acc *account) {
	writeJSON(w, http.StatusOK, acc.user)
}

func (s *Server) listProducts(w http.ResponseWriter, _ *http.Request, _ *account) {
	s.mu.Lock()
	s.listCalls++
	out := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request, _ *account) {
	s.mu.Lock()
	p, ok := s.products[pathID(r)]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) recordMovement(w http.ResponseWriter, r *http.Request, _ *account) {
	var m model.StockMovement
	_ = json.NewDecoder(r.Body).Decode(&m)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.movements = append(s.movements, m)
	if s.FailMovement[m.ProductID] {
		writeError(w, http.StatusInternalServerError, "stock service unavailable")
		return
	}
	if p, ok := s.products[m.ProductID]; ok {
		switch m.MovementType {
		case model.MovementOut:
			p.Quantity -= m.Quantity
		case model.MovementIn:
			p.Quantity += m.Quantity
		}
		s.products[m.ProductID] = p
	}
	m.ID = int64(len(s.movements))
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) listMovements(w http.ResponseWriter, r *http.Request, _ *account) {
	id := pathID(r)
	s.mu.Lock()
	out := []model.StockMovement{}
	for _, m := range s.movements {
		if m.ProductID == id {
			out = append(out, m)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request, _ *account) {
	var d model.TransactionDraft
	_ = json.NewDecoder(r.Body).Decode(&d)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts = append(s.drafts, d)
	if s.FailSubmit {
		writeError(w, http.StatusServiceUnavailable, "fraud service unavailable")
		return
	}
	s.nextTxID++
	res := s.Verdict
	res.TransactionID = s.nextTxID
	res.Amount = d.Amount
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) myTransactions(w http.ResponseWriter, _ *http.Request, _ *account) {
	s.mu.Lock()
	out := make([]model.Transaction, 0, len(s.drafts))
	for i, d := range s.drafts {
		out = append(out, model.Transaction{ID: int64(1001 + i), Amount: d.Amount, PaymentMethod: d.PaymentMethod})
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) recordPurchase(w http.ResponseWriter, r *http.Request, _ *account) {
	var rec model.PurchaseRecord
	_ = json.NewDecoder(r.Body).Decode(&rec)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailPurchase {
		writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	s.purchases = append(s.purchases, rec)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Purchases recorded"})
}

func (s *Server) myPurchases(w http.ResponseWriter, _ *http.Request, acc *account) {
	s.mu.Lock()
	out := []model.Purchase{}
	for _, rec := range s.purchases {
		for _, item := range rec.Items {
			p := s.products[item.ProductID]
			out = append(out, model.Purchase{
				UserID: acc.user.ID, TransactionID: rec.TransactionID, StockID: item.ProductID,
				Name: p.Name, Price: p.Price, Quantity: item.Quantity,
			})
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) alerts(w http.ResponseWriter, _ *http.Request, _ *account) {
	s.mu.Lock()
	out := append([]model.FraudAlert{}, s.Alerts...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request, _ *account) {
	var p model.Product
	_ = json.NewDecoder(r.Body).Decode(&p)

	s.mu.Lock()
	defer s.mu.Unlock()
	var maxID int64
	for id := range s.products {
		if id > maxID {
			maxID = id
		}
	}
	p.ID = maxID + 1
	s.products[p.ID] = p
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request, _ *account) {
	var upd model.ProductUpdate
	_ = json.NewDecoder(r.Body).Decode(&upd)

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[pathID(r)]
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Quantity != nil {
		p.Quantity = *upd.Quantity
	}
	if upd.LowStockThreshold != nil {
		p.LowStockThreshold = *upd.LowStockThreshold
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.ExpirationDate != nil {
		p.ExpirationDate = *upd.ExpirationDate
	}
	s.products[p.ID] = p
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) productAlerts(w http.ResponseWriter, r *http.Request, _ *account) {
	s.mu.Lock()
	out := append([]model.StockAlert{}, s.StockAlerts[pathID(r)]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) myStatistics(w http.ResponseWriter, _ *http.Request, _ *account) {
	s.mu.Lock()
	stats := model.TransactionStatistics{TotalTransactions: int64(len(s.drafts))}
	for _, d := range s.drafts {
		stats.TotalAmount += d.Amount
	}
	s.mu.Unlock()
	if stats.TotalTransactions > 0 {
		stats.AverageAmount = stats.TotalAmount / float64(stats.TotalTransactions)
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) allStatistics(w http.ResponseWriter, _ *http.Request, _ *account) {
	s.mu.Lock()
	stats := model.TransactionOverview{
		TotalTransactions:     int64(len(s.drafts)),
		RiskLevelDistribution: map[string]int64{},
	}
	for _, d := range s.drafts {
		stats.TotalAmount += d.Amount
		stats.RiskLevelDistribution[s.Verdict.RiskLevel]++
		if s.Verdict.IsFraud {
			stats.FraudulentTransactions++
		}
	}
	s.mu.Unlock()
	if stats.TotalTransactions > 0 {
		stats.AverageAmount = stats.TotalAmount / float64(stats.TotalTransactions)
		stats.AverageFraudScore = s.Verdict.FraudScore
	}
	writeJSON(w, http.StatusOK, stats)
}

// alertIndex returns the index of alert id, or -1. Callers hold s.mu.
func (s *Server) alertIndex(id int64) int {
	for i, a := range s.Alerts {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) alert(w http.ResponseWriter, r *http.Request, _ *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.alertIndex(pathID(r))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Fraud alert not found")
		return
	}
	writeJSON(w, http.StatusOK, s.Alerts[i])
}

func (s *Server) resolveAlert(w http.ResponseWriter, r *http.Request, acc *account) {
	var body map[string]string
	_ = json.NewDecoder(r.Body).Decode(&body)

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.alertIndex(pathID(r))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Fraud alert not found")
		return
	}
	a := &s.Alerts[i]
	a.Status = "RESOLVED"
	a.ResolvedBy = acc.user.Username
	a.ResolvedAt = "2026-03-10T12:00:00"
	a.InvestigationNotes = body["investigationNotes"]
	writeJSON(w, http.StatusOK, model.FraudAlertResolution{
		ID: a.ID, Status: a.Status, ResolvedBy: a.ResolvedBy, ResolvedAt: a.ResolvedAt,
		Message: "Fraud alert resolved successfully",
	})
}

func (s *Server) fraudStatistics(w http.ResponseWriter, _ *http.Request, _ *account) {
	s.mu.Lock()
	stats := model.FraudStatistics{TotalAlerts: int64(len(s.Alerts))}
	for _, a := range s.Alerts {
		if a.Status == "ACTIVE" {
			stats.ActiveAlerts++
		}
		switch a.Severity {
		case "HIGH":
			stats.HighSeverityAlerts++
		case "CRITICAL":
			stats.CriticalAlerts++
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, stats)
}

// users returns every account sorted by id. Callers hold s.mu.
func (s *Server) users() []model.User {
	out := make([]model.User, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a.user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request, _ *account) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, err := strconv.Atoi(q.Get("size"))
	if err != nil || size <= 0 {
		size = 10
	}
	search := strings.ToLower(q.Get("search"))

	s.mu.Lock()
	var matched []model.User
	for _, u := range s.users() {
		if search == "" || strings.Contains(strings.ToLower(u.Username), search) {
			matched = append(matched, u)
		}
	}
	s.mu.Unlock()

	start := page * size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}
	writeJSON(w, http.StatusOK, model.UserPage{
		Users:       append([]model.User{}, matched[start:end]...),
		CurrentPage: page,
		TotalItems:  int64(len(matched)),
		TotalPages:  (len(matched) + size - 1) / size,
		Size:        size,
	})
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request, _ *account) {
	id := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users() {
		if u.ID == id {
			writeJSON(w, http.StatusOK, u)
			return
		}
	}
	writeError(w, http.StatusNotFound, "User not found")
}

func (s *Server) setActive(active bool) func(http.ResponseWriter, *http.Request, *account) {
	return func(w http.ResponseWriter, r *http.Request, _ *account) {
		id := pathID(r)
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, a := range s.accounts {
			if a.user.ID == id {
				a.user.IsActive = active
				writeJSON(w, http.StatusOK, map[string]string{"message": "User updated successfully"})
				return
			}
		}
		writeError(w, http.StatusNotFound, "User not found")
	}
}

func (s *Server) userStatistics(w http.ResponseWriter, _ *http.Request, _ *account) {
	s.mu.Lock()
	stats := map[string]int64{"totalUsers": int64(len(s.accounts))}
	for _, a := range s.accounts {
		if a.user.IsActive {
			stats["activeUsers"]++
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, stats)
}

// User returns the current state of an account.
func (s *Server) User(username string) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[username]; ok {
		return a.user
	}
	return model.User{}
}
