package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"golang.org/x/oauth2"

	"github.com/arjunvir/vastra/internal/domain"
	"github.com/arjunvir/vastra/internal/usecase"
)

type Server struct {
	mux      *http.ServeMux
	tmpl     *template.Template
	catalog  *usecase.CatalogUC
	cart     *usecase.CartUC
	wishlist *usecase.WishlistUC
	checkout *usecase.CheckoutUC
	sessions domain.SessionRepo
	users    domain.UserRepo
	oauthCfg *oauth2.Config

	adminAllowed map[string]struct{}
	adminSecret  []byte
}

func New(t *template.Template, catalog *usecase.CatalogUC, cart *usecase.CartUC, wishlist *usecase.WishlistUC, checkout *usecase.CheckoutUC, sessions domain.SessionRepo, users domain.UserRepo, oauthCfg *oauth2.Config) http.Handler {
	s := &Server{
		mux:      http.NewServeMux(),
		tmpl:     t,
		catalog:  catalog,
		cart:     cart,
		wishlist: wishlist,
		checkout: checkout,
		sessions: sessions,
		users:    users,
		oauthCfg: oauthCfg,
	}

	allowed := map[string]struct{}{}
	if raw := os.Getenv("ADMIN_ALLOWED_EMAILS"); raw != "" {
		for _, e := range strings.Split(raw, ",") {
			e = strings.ToLower(strings.TrimSpace(e))
			if e != "" {
				allowed[e] = struct{}{}
			}
		}
	}
	s.adminAllowed = allowed
	sec := os.Getenv("ADMIN_SECRET")
	if sec == "" {
		sec = os.Getenv("SECRET_KEY")
	}
	if sec == "" {
		sec = "dev-admin-secret"
	}
	s.adminSecret = []byte(sec)

	s.routes()
	return Chain(s.mux,
		RateLimit(120),
		SecurityHeaders,
		Gzip,
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.Handle("/public/", http.StripPrefix("/public/", http.FileServer(http.Dir("public"))))

	s.mux.HandleFunc("/robots.txt", s.handleRobots)

	s.mux.HandleFunc("/", s.handleHome)
	s.mux.HandleFunc("/products", s.handleProducts)
	s.mux.HandleFunc("/category/", s.handleCategory)
	s.mux.HandleFunc("/product/", s.handleProduct)
	s.mux.HandleFunc("/about", s.handleStatic("about.html"))
	s.mux.HandleFunc("/contact", s.handleStatic("contact.html"))

	s.mux.HandleFunc("/cart", s.handleCart)
	s.mux.HandleFunc("/api/cart/add", s.apiCartAdd)
	s.mux.HandleFunc("/api/cart/update", s.apiCartUpdate)
	s.mux.HandleFunc("/api/cart/remove", s.apiCartRemove)

	s.mux.HandleFunc("/wishlist", s.handleWishlist)
	s.mux.HandleFunc("/api/wishlist/toggle", s.apiWishlistToggle)

	s.mux.HandleFunc("/checkout", s.handleCheckout)
	s.mux.HandleFunc("/order-success", s.handleOrderSuccess)
	s.mux.HandleFunc("/profile", s.handleProfile)

	s.mux.HandleFunc("/auth/google/login", s.handleGoogleLogin)
	s.mux.HandleFunc("/auth/google/callback", s.handleGoogleCallback)
	s.mux.HandleFunc("/logout", s.handleLogout)

	s.mux.HandleFunc("/admin/login", s.handleAdminLogin)
	s.mux.HandleFunc("/admin/auth", s.handleAdminAuth)
	s.mux.HandleFunc("/admin/logout", s.handleAdminLogout)
	s.mux.HandleFunc("/admin/orders", s.handleAdminOrders)
	s.mux.HandleFunc("/admin/orders/export", s.handleAdminOrdersExport)
}

// pageData builds the layout context every page needs: categories for the
// nav and the cart badge count. It never creates a session, owner keys come
// into being only on cart/wishlist interaction.
func (s *Server) pageData(r *http.Request) map[string]any {
	data := map[string]any{"Year": time.Now().Year()}
	if u := readUserSession(r); u != nil {
		data["User"] = u
	}
	cats, err := s.catalog.AllCategories(r.Context())
	if err == nil {
		data["Categories"] = cats
	}
	var count int
	if owner, ok := s.currentOwner(r); ok {
		if totals, err := s.cart.Totals(r.Context(), owner); err == nil {
			count = totals.ItemCount
		}
	}
	data["CartCount"] = count
	return data
}

// currentOwner resolves the owner only if one already exists.
func (s *Server) currentOwner(r *http.Request) (domain.OwnerKey, bool) {
	if u := readUserSession(r); u != nil {
		if uid, err := uuid.Parse(u.UID); err == nil {
			return domain.UserOwner(uid), true
		}
	}
	if sid := anonymousSessionID(r); sid != nil {
		return domain.SessionOwner(*sid), true
	}
	return domain.OwnerKey{}, false
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data := s.pageData(r)
	if featured, err := s.catalog.Featured(r.Context(), 6); err == nil {
		data["FeaturedProducts"] = featured
	}
	if arrivals, err := s.catalog.NewArrivals(r.Context(), 4); err == nil {
		data["NewArrivals"] = arrivals
	}
	s.render(w, "home.html", data)
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	f := domain.ProductFilter{
		Query:    q.Get("q"),
		Sort:     q.Get("sort"),
		Page:     page,
		PageSize: 12,
	}
	list, total, err := s.catalog.List(r.Context(), f)
	if err != nil {
		http.Error(w, "err", 500)
		return
	}
	data := s.pageData(r)
	data["Products"] = list
	data["TotalProducts"] = total
	data["Page"] = max(f.Page, 1)
	data["HasMore"] = int64(max(f.Page, 1)*f.PageSize) < total
	s.render(w, "products.html", data)
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimPrefix(r.URL.Path, "/category/")
	slug = strings.TrimSuffix(slug, "/")
	cat, err := s.catalog.CategoryBySlug(r.Context(), slug)
	if err != nil {
		s.htmlError(w, err)
		return
	}
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	list, total, err := s.catalog.List(r.Context(), domain.ProductFilter{
		CategorySlug: slug,
		Sort:         q.Get("sort"),
		Page:         page,
		PageSize:     12,
	})
	if err != nil {
		http.Error(w, "err", 500)
		return
	}
	data := s.pageData(r)
	data["CurrentCategory"] = cat
	data["Products"] = list
	data["TotalProducts"] = total
	s.render(w, "products.html", data)
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimPrefix(r.URL.Path, "/product/")
	slug = strings.TrimSuffix(slug, "/")
	p, err := s.catalog.GetBySlug(r.Context(), slug)
	if err != nil {
		s.htmlError(w, err)
		return
	}
	data := s.pageData(r)
	data["Product"] = p
	data["Sizes"] = p.SizeList()
	data["IsNewArrival"] = p.IsNewArrival(time.Now())
	s.render(w, "product.html", data)
}

func (s *Server) handleStatic(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, name, s.pageData(r))
	}
}

func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	owner, err := s.resolveOwner(w, r)
	if err != nil {
		http.Error(w, "session", 500)
		return
	}
	cart, totals, err := s.cart.Get(r.Context(), owner)
	if err != nil {
		http.Error(w, "err", 500)
		return
	}
	data := s.pageData(r)
	data["Cart"] = cart
	data["Totals"] = totals
	data["CartCount"] = totals.ItemCount
	s.render(w, "cart.html", data)
}

type cartAddInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
}

func (s *Server) apiCartAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var in cartAddInput
	if isJSON(r) {
		if err := json.NewDecoder(io.LimitReader(r.Body, 2048)).Decode(&in); err != nil {
			s.jsonError(w, domain.ErrInvalidInput)
			return
		}
	} else {
		in.ProductID = r.FormValue("product_id")
		in.Quantity, _ = strconv.Atoi(r.FormValue("quantity"))
		in.Size = r.FormValue("size")
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	pid, err := uuid.Parse(in.ProductID)
	if err != nil {
		s.jsonError(w, domain.ErrInvalidInput)
		return
	}
	owner, err := s.resolveOwner(w, r)
	if err != nil {
		s.jsonError(w, err)
		return
	}
	totals, err := s.cart.AddItem(r.Context(), owner, pid, in.Quantity, in.Size)
	if err != nil {
		s.jsonError(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{
		"success":    true,
		"message":    "Added to cart",
		"cart_count": totals.ItemCount,
		"cart_total": totals.TotalPrice,
	})
}

type cartUpdateInput struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

func (s *Server) apiCartUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var in cartUpdateInput
	if isJSON(r) {
		if err := json.NewDecoder(io.LimitReader(r.Body, 2048)).Decode(&in); err != nil {
			s.jsonError(w, domain.ErrInvalidInput)
			return
		}
	} else {
		in.ItemID = r.FormValue("item_id")
		in.Quantity, _ = strconv.Atoi(r.FormValue("quantity"))
	}
	itemID, err := uuid.Parse(in.ItemID)
	if err != nil {
		s.jsonError(w, domain.ErrInvalidInput)
		return
	}
	owner, err := s.resolveOwner(w, r)
	if err != nil {
		s.jsonError(w, err)
		return
	}
	totals, err := s.cart.UpdateItemQuantity(r.Context(), owner, itemID, in.Quantity)
	if err != nil {
		s.jsonError(w, err)
		return
	}
	itemTotal := 0.0
	if in.Quantity > 0 {
		if cart, err := s.cart.Carts.FindByOwner(r.Context(), owner); err == nil {
			for _, it := range cart.Items {
				if it.ID == itemID {
					itemTotal = it.LineTotal()
				}
			}
		}
	}
	writeJSON(w, 200, map[string]any{
		"success":    true,
		"cart_count": totals.ItemCount,
		"cart_total": totals.TotalPrice,
		"item_total": itemTotal,
	})
}

func (s *Server) apiCartRemove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var in cartUpdateInput
	if isJSON(r) {
		if err := json.NewDecoder(io.LimitReader(r.Body, 2048)).Decode(&in); err != nil {
			s.jsonError(w, domain.ErrInvalidInput)
			return
		}
	} else {
		in.ItemID = r.FormValue("item_id")
	}
	itemID, err := uuid.Parse(in.ItemID)
	if err != nil {
		s.jsonError(w, domain.ErrInvalidInput)
		return
	}
	owner, err := s.resolveOwner(w, r)
	if err != nil {
		s.jsonError(w, err)
		return
	}
	totals, err := s.cart.RemoveItem(r.Context(), owner, itemID)
	if err != nil {
		s.jsonError(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{
		"success":    true,
		"message":    "Item removed from cart",
		"cart_count": totals.ItemCount,
		"cart_total": totals.TotalPrice,
	})
}

func (s *Server) handleWishlist(w http.ResponseWriter, r *http.Request) {
	owner, err := s.resolveOwner(w, r)
	if err != nil {
		http.Error(w, "session", 500)
		return
	}
	wl, err := s.wishlist.Get(r.Context(), owner)
	if err != nil {
		http.Error(w, "err", 500)
		return
	}
	data := s.pageData(r)
	data["Wishlist"] = wl
	s.render(w, "wishlist.html", data)
}

func (s *Server) apiWishlistToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var in struct {
		ProductID string `json:"product_id"`
	}
	if isJSON(r) {
		if err := json.NewDecoder(io.LimitReader(r.Body, 2048)).Decode(&in); err != nil {
			s.jsonError(w, domain.ErrInvalidInput)
			return
		}
	} else {
		in.ProductID = r.FormValue("product_id")
	}
	pid, err := uuid.Parse(in.ProductID)
	if err != nil {
		s.jsonError(w, domain.ErrInvalidInput)
		return
	}
	owner, err := s.resolveOwner(w, r)
	if err != nil {
		s.jsonError(w, err)
		return
	}
	action, err := s.wishlist.Toggle(r.Context(), owner, pid)
	if err != nil {
		s.jsonError(w, err)
		return
	}
	msg := "Added to wishlist"
	if action == domain.ToggleRemoved {
		msg = "Removed from wishlist"
	}
	writeJSON(w, 200, map[string]any{"success": true, "message": msg, "action": string(action)})
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	owner, err := s.resolveOwner(w, r)
	if err != nil {
		http.Error(w, "session", 500)
		return
	}
	if r.Method == http.MethodGet {
		cart, totals, err := s.cart.Get(r.Context(), owner)
		if err != nil {
			http.Error(w, "err", 500)
			return
		}
		if totals.ItemCount == 0 {
			http.Redirect(w, r, "/cart", 302)
			return
		}
		data := s.pageData(r)
		data["Cart"] = cart
		data["Totals"] = totals
		s.render(w, "checkout.html", data)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", 400)
		return
	}
	info := domain.CheckoutInfo{
		FullName:      r.FormValue("full_name"),
		Address:       r.FormValue("address"),
		City:          r.FormValue("city"),
		PostalCode:    r.FormValue("postal_code"),
		Phone:         r.FormValue("phone"),
		PaymentMethod: r.FormValue("payment_method"),
	}
	order, err := s.checkout.Checkout(r.Context(), owner, info)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyCart):
			http.Redirect(w, r, "/cart", 302)
		case errors.Is(err, domain.ErrInvalidInput):
			http.Error(w, "missing required field", 400)
		default:
			log.Error().Err(err).Msg("checkout")
			http.Error(w, "checkout failed", 500)
		}
		return
	}
	writeOrderRef(w, order.ID)
	http.Redirect(w, r, "/order-success", 302)
}

func (s *Server) handleOrderSuccess(w http.ResponseWriter, r *http.Request) {
	id, ok := readOrderRef(r)
	if !ok {
		http.Redirect(w, r, "/products", 302)
		return
	}
	order, err := s.checkout.GetOrder(r.Context(), id)
	if err != nil {
		s.htmlError(w, err)
		return
	}
	data := s.pageData(r)
	data["Order"] = order
	s.render(w, "order_success.html", data)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	u := readUserSession(r)
	if u == nil {
		http.Redirect(w, r, "/auth/google/login", 302)
		return
	}
	uid, err := uuid.Parse(u.UID)
	if err != nil {
		http.Error(w, "session", 400)
		return
	}
	orders, err := s.checkout.OrdersForUser(r.Context(), uid)
	if err != nil {
		http.Error(w, "err", 500)
		return
	}
	data := s.pageData(r)
	data["Orders"] = orders
	s.render(w, "profile.html", data)
}

func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "User-agent: *")
	fmt.Fprintln(w, "Disallow: /admin/")
	fmt.Fprintln(w, "Disallow: /api/")
}

// order reference cookie lets a guest see the order they just placed
// without opening order lookup to anyone holding the id

func writeOrderRef(w http.ResponseWriter, id uuid.UUID) {
	b := []byte(id.String())
	h := hmac.New(sha256.New, secretKey())
	h.Write(b)
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	val := sig + "." + base64.RawURLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{Name: "last_order", Value: val, Path: "/", MaxAge: 3600, HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

func readOrderRef(r *http.Request) (uuid.UUID, bool) {
	c, err := r.Cookie("last_order")
	if err != nil || c.Value == "" {
		return uuid.Nil, false
	}
	parts := strings.SplitN(c.Value, ".", 2)
	if len(parts) != 2 {
		return uuid.Nil, false
	}
	sig, _ := base64.RawURLEncoding.DecodeString(parts[0])
	payload, _ := base64.RawURLEncoding.DecodeString(parts[1])
	h := hmac.New(sha256.New, secretKey())
	h.Write(payload)
	if !hmac.Equal(sig, h.Sum(nil)) {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(string(payload))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Error().Err(err).Str("tpl", name).Msg("render")
		http.Error(w, "tpl", 500)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func errStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return 404, "not found"
	case errors.Is(err, domain.ErrInvalidInput):
		return 400, "invalid input"
	case errors.Is(err, domain.ErrEmptyCart):
		return 400, "cart is empty"
	case errors.Is(err, domain.ErrConflict):
		return 409, "conflict, retry"
	}
	return 500, "internal error"
}

// jsonError keeps the AJAX contract: success:false plus a message. A store
// failure is logged and reported as failure, never masked as success.
func (s *Server) jsonError(w http.ResponseWriter, err error) {
	code, msg := errStatus(err)
	if code == 500 {
		log.Error().Err(err).Msg("api")
	}
	writeJSON(w, code, map[string]any{"success": false, "message": msg})
}

func (s *Server) htmlError(w http.ResponseWriter, err error) {
	code, msg := errStatus(err)
	if code == 500 {
		log.Error().Err(err).Msg("page")
	}
	http.Error(w, msg, code)
}

// --- admin ---

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	cfgKey := os.Getenv("ADMIN_API_KEY")
	if cfgKey == "" {
		log.Error().Msg("ADMIN_API_KEY missing")
		http.Error(w, "config", 500)
		return
	}
	apiKey := r.Header.Get("X-Admin-Key")
	if apiKey == "" || !secureCompare(apiKey, cfgKey) {
		http.Error(w, "unauthorized", 401)
		return
	}
	var req struct {
		Email string `json:"email"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" && len(s.adminAllowed) == 1 {
		for k := range s.adminAllowed {
			email = k
		}
	}
	if _, ok := s.adminAllowed[email]; !ok {
		http.Error(w, "forbidden", 403)
		return
	}
	tok, exp, err := s.issueAdminToken(email, 30*time.Minute)
	if err != nil {
		http.Error(w, "token", 500)
		return
	}
	writeJSON(w, 200, map[string]any{"token": tok, "exp": exp.Unix(), "email": email})
}

func (s *Server) handleAdminAuth(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		if s.isAdminSession(r) {
			http.Redirect(w, r, "/admin/orders", 302)
			return
		}
		s.render(w, "admin_auth.html", s.pageData(r))
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", 400)
		return
	}
	cfgKey := os.Getenv("ADMIN_API_KEY")
	if cfgKey == "" || !secureCompare(r.FormValue("api_key"), cfgKey) {
		http.Error(w, "unauthorized", 401)
		return
	}
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	if _, ok := s.adminAllowed[email]; !ok {
		http.Error(w, "forbidden", 403)
		return
	}
	tok, _, err := s.issueAdminToken(email, 2*time.Hour)
	if err != nil {
		http.Error(w, "token", 500)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "admin_token", Value: tok, Path: "/", MaxAge: 7200, HttpOnly: true, SameSite: http.SameSiteStrictMode})
	http.Redirect(w, r, "/admin/orders", 302)
}

func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: "admin_token", Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	http.Redirect(w, r, "/", 302)
}

func (s *Server) handleAdminOrders(w http.ResponseWriter, r *http.Request) {
	if !s.isAdminSession(r) {
		http.Redirect(w, r, "/admin/auth", 302)
		return
	}
	orders, err := s.checkout.AllOrders(r.Context())
	if err != nil {
		http.Error(w, "err", 500)
		return
	}
	var revenue float64
	for _, o := range orders {
		revenue += o.TotalPrice
	}
	data := s.pageData(r)
	data["Orders"] = orders
	data["OrdersCount"] = len(orders)
	data["TotalRevenue"] = revenue
	s.render(w, "admin_orders.html", data)
}

func (s *Server) handleAdminOrdersExport(w http.ResponseWriter, r *http.Request) {
	if !s.isAdminSession(r) {
		http.Redirect(w, r, "/admin/auth", 302)
		return
	}
	orders, err := s.checkout.AllOrders(r.Context())
	if err != nil {
		http.Error(w, "err", 500)
		return
	}
	f := excelize.NewFile()
	sheet := "Orders"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"ID", "Created", "Customer", "City", "Postal Code", "Phone", "Payment", "Items", "Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for row, o := range orders {
		items := 0
		for _, it := range o.Items {
			items += it.Quantity
		}
		values := []any{
			o.ID.String(),
			o.CreatedAt.Format(time.RFC3339),
			o.FullName,
			o.City,
			o.PostalCode,
			o.Phone,
			o.PaymentMethod,
			items,
			o.TotalPrice,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=orders_%s.xlsx", time.Now().Format("2006-01-02")))
	if err := f.Write(w); err != nil {
		log.Error().Err(err).Msg("orders export")
	}
}

func (s *Server) isAdminSession(r *http.Request) bool {
	c, err := r.Cookie("admin_token")
	if err != nil || c.Value == "" {
		return false
	}
	_, err = s.verifyAdminToken(c.Value)
	return err == nil
}

func (s *Server) issueAdminToken(email string, dur time.Duration) (string, time.Time, error) {
	head := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	exp := time.Now().Add(dur)
	claims := map[string]any{"sub": email, "email": email, "role": "admin", "exp": exp.Unix(), "iat": time.Now().Unix(), "iss": "vastra"}
	b, _ := json.Marshal(claims)
	pay := base64.RawURLEncoding.EncodeToString(b)
	unsigned := head + "." + pay
	h := hmac.New(sha256.New, s.adminSecret)
	h.Write([]byte(unsigned))
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	return unsigned + "." + sig, exp, nil
}

func (s *Server) verifyAdminToken(tok string) (string, error) {
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("format")
	}
	unsigned := parts[0] + "." + parts[1]
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return "", fmt.Errorf("sig")
	}
	h := hmac.New(sha256.New, s.adminSecret)
	h.Write([]byte(unsigned))
	if !hmac.Equal(sig, h.Sum(nil)) {
		return "", fmt.Errorf("signature")
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("payload")
	}
	var m map[string]any
	if err := json.Unmarshal(payload, &m); err != nil {
		return "", fmt.Errorf("json")
	}
	role, _ := m["role"].(string)
	email, _ := m["email"].(string)
	expF, _ := m["exp"].(float64)
	if role != "admin" || email == "" {
		return "", fmt.Errorf("claims")
	}
	if time.Now().Unix() > int64(expF) {
		return "", fmt.Errorf("expired")
	}
	if _, ok := s.adminAllowed[strings.ToLower(email)]; !ok {
		return "", fmt.Errorf("not allowed")
	}
	return email, nil
}

func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	var v byte
	for i := 0; i < len(a); i++ {
		v |= a[i] ^ b[i]
	}
	return v == 0
}
