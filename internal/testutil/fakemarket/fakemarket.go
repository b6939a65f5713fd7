// Package fakemarket runs an in-process marketplace API for tests: auth endpoints issuing HS256
// JWTs and a canonical product catalog with owner and interest bookkeeping.
package fakemarket

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/nguyentranbao-ct/reuse/internal/models"
)

const (
	DemoEmail    = "ana@example.com"
	DemoPassword = "secret1"
	DemoUserID   = "user-ana"
)

type account struct {
	password string
	user     models.User
}

type Market struct {
	*httptest.Server

	secret []byte

	mu        sync.Mutex
	accounts  map[string]*account
	products  []models.Product
	interests map[string]map[string]bool
	revoked   map[string]bool
	hits      map[string]int
	forced    map[string]*forcedStatus
}

type forcedStatus struct {
	status    int
	remaining int // negative means until cleared
}

func New(t testing.TB) *Market {
	t.Helper()
	m := &Market{
		secret:    []byte("fake-market-secret"),
		accounts:  map[string]*account{},
		interests: map[string]map[string]bool{},
		revoked:   map[string]bool{},
		hits:      map[string]int{},
		forced:    map[string]*forcedStatus{},
	}
	m.accounts[DemoEmail] = &account{
		password: DemoPassword,
		user: models.User{
			ID:             DemoUserID,
			Name:           "Ana Santos",
			Email:          DemoEmail,
			ProfilePicture: "/uploads/ana.jpg",
			Rating:         4.5,
		},
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(m.track)

	e.POST("/auth/login", m.login)
	e.POST("/auth/register", m.register)
	e.POST("/auth/validate-token", m.validateToken)
	e.POST("/auth/logout", m.logout)

	e.GET("/products", m.listProducts)
	e.GET("/products/my-products", m.myProducts, m.requireAuth)
	e.GET("/products/interested", m.interested, m.requireAuth)
	e.GET("/products/:id", m.getProduct)
	e.POST("/products", m.createProduct, m.requireAuth)
	e.PUT("/products/:id", m.updateProduct, m.requireAuth)
	e.DELETE("/products/:id", m.deleteProduct, m.requireAuth)
	e.POST("/products/:id/interest", m.showInterest, m.requireAuth)

	m.Server = httptest.NewServer(e)
	t.Cleanup(m.Server.Close)
	return m
}

// Hits returns how many requests reached route, written as "METHOD /path/:param".
func (m *Market) Hits(route string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits[route]
}

// Force makes route answer status with a JSON message until Force is called again with 0.
func (m *Market) Force(route string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if status == 0 {
		delete(m.forced, route)
		return
	}
	m.forced[route] = &forcedStatus{status: status, remaining: -1}
}

// FailTimes makes the next n requests to route answer status.
func (m *Market) FailTimes(route string, status, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forced[route] = &forcedStatus{status: status, remaining: n}
}

func (m *Market) SetProducts(products []models.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = append([]models.Product(nil), products...)
}

func (m *Market) Products() []models.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Product(nil), m.products...)
}

func (m *Market) IssueToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

func (m *Market) track(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		route := c.Request().Method + " " + c.Path()
		m.mu.Lock()
		m.hits[route]++
		status := 0
		if f, ok := m.forced[route]; ok {
			status = f.status
			if f.remaining > 0 {
				f.remaining--
				if f.remaining == 0 {
					delete(m.forced, route)
				}
			}
		}
		m.mu.Unlock()
		if status != 0 {
			return c.JSON(status, echo.Map{"message": fmt.Sprintf("forced %d", status)})
		}
		return next(c)
	}
}

func (m *Market) subject(c echo.Context) (string, error) {
	raw, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
	if !ok || raw == "" {
		return "", fmt.Errorf("missing bearer token")
	}
	m.mu.Lock()
	revoked := m.revoked[raw]
	m.mu.Unlock()
	if revoked {
		return "", fmt.Errorf("token revoked")
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (m *Market) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sub, err := m.subject(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Token inválido"})
		}
		c.Set("sub", sub)
		return next(c)
	}
}

func (m *Market) login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Requisição inválida"})
	}
	m.mu.Lock()
	acc, ok := m.accounts[req.Email]
	m.mu.Unlock()
	if !ok || acc.password != req.Password {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Credenciais inválidas"})
	}
	return c.JSON(http.StatusOK, models.Session{Token: m.IssueToken(acc.user.ID), User: acc.user})
}

func (m *Market) register(c echo.Context) error {
	name, email, password := c.FormValue("name"), c.FormValue("email"), c.FormValue("password")
	if name == "" || email == "" || password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Campos obrigatórios"})
	}

	user := models.User{ID: uuid.NewString(), Name: name, Email: email}
	if fh, err := c.FormFile("profilePicture"); err == nil {
		user.ProfilePicture = "/uploads/" + fh.Filename
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.accounts[email]; exists {
		return c.JSON(http.StatusConflict, echo.Map{"message": "Email já cadastrado"})
	}
	m.accounts[email] = &account{password: password, user: user}
	return c.JSON(http.StatusCreated, models.Session{Token: m.IssueToken(user.ID), User: user})
}

func (m *Market) validateToken(c echo.Context) error {
	if _, err := m.subject(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Token inválido"})
	}
	return c.JSON(http.StatusOK, echo.Map{"valid": true})
}

func (m *Market) logout(c echo.Context) error {
	raw, _ := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
	m.mu.Lock()
	m.revoked[raw] = true
	m.mu.Unlock()
	return c.JSON(http.StatusOK, echo.Map{"message": "ok"})
}

func (m *Market) listProducts(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"products": m.Products()})
}

func (m *Market) getProduct(c echo.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOf(c.Param("id")); i >= 0 {
		return c.JSON(http.StatusOK, m.products[i])
	}
	return c.JSON(http.StatusNotFound, echo.Map{"message": "Produto não encontrado"})
}

func (m *Market) indexOf(id string) int {
	for i, p := range m.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (m *Market) ownerName(userID string) string {
	for _, acc := range m.accounts {
		if acc.user.ID == userID {
			return acc.user.Name
		}
	}
	return ""
}

func uploads(c echo.Context) []string {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	var images []string
	for _, fh := range form.File["images"] {
		images = append(images, "/uploads/"+fh.Filename)
	}
	return images
}

func (m *Market) createProduct(c echo.Context) error {
	price, err := cast.ToFloat64E(c.FormValue("price"))
	if err != nil || c.FormValue("name") == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Dados do produto inválidos"})
	}
	sub := c.Get("sub").(string)
	now := time.Now().UTC()

	m.mu.Lock()
	defer m.mu.Unlock()
	p := models.Product{
		ID:          uuid.NewString(),
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Price:       price,
		Location:    models.Location{State: c.FormValue("state"), City: c.FormValue("city")},
		Category:    c.FormValue("category"),
		Condition:   c.FormValue("condition"),
		Images:      uploads(c),
		OwnerID:     sub,
		OwnerName:   m.ownerName(sub),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	m.products = append(m.products, p)
	return c.JSON(http.StatusCreated, p)
}

func (m *Market) updateProduct(c echo.Context) error {
	sub := c.Get("sub").(string)
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(c.Param("id"))
	if i < 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Produto não encontrado"})
	}
	p := &m.products[i]
	if p.OwnerID != sub {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Sem permissão"})
	}
	set := func(field string, dst *string) {
		if v := c.FormValue(field); v != "" {
			*dst = v
		}
	}
	set("name", &p.Name)
	set("description", &p.Description)
	set("state", &p.Location.State)
	set("city", &p.Location.City)
	set("category", &p.Category)
	set("condition", &p.Condition)
	if v := c.FormValue("price"); v != "" {
		p.Price = cast.ToFloat64(v)
	}
	if images := uploads(c); len(images) > 0 {
		p.Images = images
	}
	p.UpdatedAt = time.Now().UTC()
	return c.JSON(http.StatusOK, *p)
}

func (m *Market) deleteProduct(c echo.Context) error {
	sub := c.Get("sub").(string)
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(c.Param("id"))
	if i < 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Produto não encontrado"})
	}
	if m.products[i].OwnerID != sub {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Sem permissão"})
	}
	m.products = append(m.products[:i], m.products[i+1:]...)
	return c.NoContent(http.StatusNoContent)
}

func (m *Market) showInterest(c echo.Context) error {
	sub := c.Get("sub").(string)
	id := c.Param("id")
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Produto não encontrado"})
	}
	if m.products[i].OwnerID == sub {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Você não pode demonstrar interesse no seu próprio produto"})
	}
	if m.interests[sub] == nil {
		m.interests[sub] = map[string]bool{}
	}
	m.interests[sub][id] = true
	return c.JSON(http.StatusOK, models.InterestResult{Success: true, Message: "Interesse registrado"})
}

func (m *Market) myProducts(c echo.Context) error {
	sub := c.Get("sub").(string)
	m.mu.Lock()
	defer m.mu.Unlock()
	mine := []models.Product{}
	for _, p := range m.products {
		if p.OwnerID == sub {
			mine = append(mine, p)
		}
	}
	return c.JSON(http.StatusOK, mine)
}

func (m *Market) interested(c echo.Context) error {
	sub := c.Get("sub").(string)
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Product{}
	for _, p := range m.products {
		if m.interests[sub][p.ID] {
			out = append(out, p)
		}
	}
	return c.JSON(http.StatusOK, out)
}
