package app

import (
	"fmt"
	"html/template"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/arjunvir/vastra/internal/adapters/httpserver"
	"github.com/arjunvir/vastra/internal/adapters/repo/postgres"
	"github.com/arjunvir/vastra/internal/domain"
	"github.com/arjunvir/vastra/internal/usecase"
	"github.com/arjunvir/vastra/internal/views"
)

type App struct {
	DB          *gorm.DB
	Tmpl        *template.Template
	CatalogUC   *usecase.CatalogUC
	CartUC      *usecase.CartUC
	WishlistUC  *usecase.WishlistUC
	CheckoutUC  *usecase.CheckoutUC
	Sessions    domain.SessionRepo
	Users       domain.UserRepo
	OAuthConfig *oauth2.Config
}

func NewApp(db *gorm.DB) (*App, error) {
	prodRepo := postgres.NewProductRepo(db)
	catRepo := postgres.NewCategoryRepo(db)
	cartRepo := postgres.NewCartRepo(db)
	wishRepo := postgres.NewWishlistRepo(db)
	orderRepo := postgres.NewOrderRepo(db)
	sessRepo := postgres.NewSessionRepo(db)
	userRepo := postgres.NewUserRepo(db)

	var oauthCfg *oauth2.Config
	googleID := os.Getenv("GOOGLE_CLIENT_ID")
	googleSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if googleID != "" && googleSecret != "" {
		oauthCfg = &oauth2.Config{
			ClientID:     googleID,
			ClientSecret: googleSecret,
			RedirectURL:  baseURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	app := &App{
		DB:          db,
		CatalogUC:   &usecase.CatalogUC{Products: prodRepo, Categories: catRepo},
		CartUC:      &usecase.CartUC{Carts: cartRepo, Products: prodRepo},
		WishlistUC:  &usecase.WishlistUC{Wishlists: wishRepo, Products: prodRepo},
		CheckoutUC:  &usecase.CheckoutUC{Orders: orderRepo, Carts: cartRepo},
		Sessions:    sessRepo,
		Users:       userRepo,
		OAuthConfig: oauthCfg,
	}

	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"inr": formatINR,
	}

	appEnv := strings.ToLower(os.Getenv("APP_ENV"))
	isDev := appEnv == "" || appEnv == "development" || appEnv == "dev"

	var tmpl *template.Template
	var err error
	if isDev {
		tmpl, err = template.New("layout").Funcs(funcMap).ParseGlob("internal/views/*.html")
	} else {
		tmpl, err = template.New("layout").Funcs(funcMap).ParseFS(views.FS, "*.html")
	}
	if err != nil {
		return nil, err
	}
	app.Tmpl = tmpl

	return app, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.Tmpl, a.CatalogUC, a.CartUC, a.WishlistUC, a.CheckoutUC, a.Sessions, a.Users, a.OAuthConfig)
}

func (a *App) MigrateAndSeed() error {
	if err := postgres.Migrate(a.DB); err != nil {
		return err
	}
	return seedCatalog(a.DB)
}

// formatINR renders whole rupees with Indian digit grouping: the last three
// digits, then groups of two (₹1,23,456).
func formatINR(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	if len(s) > 3 {
		head := s[:len(s)-3]
		out := s[len(s)-3:]
		for len(head) > 2 {
			out = head[len(head)-2:] + "," + out
			head = head[:len(head)-2]
		}
		s = head + "," + out
	}
	if neg {
		return "₹-" + s
	}
	return "₹" + s
}

// seedCatalog loads the sample categories and products on an empty store.
func seedCatalog(db *gorm.DB) error {
	var n int64
	if err := db.Model(&domain.Category{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	cats := []domain.Category{
		{ID: uuid.New(), Name: "Men's Clothing", Slug: "mens-clothing", Description: "Stylish and comfortable clothing for men including suits, shirts, and casual wear"},
		{ID: uuid.New(), Name: "Women's Clothing", Slug: "womens-clothing", Description: "Elegant and fashionable clothing for women including dresses, blouses, and professional wear"},
		{ID: uuid.New(), Name: "Accessories", Slug: "accessories", Description: "Fashion accessories including bags, jewelry, watches, and belts"},
		{ID: uuid.New(), Name: "Shoes", Slug: "shoes", Description: "Premium footwear for every occasion including boots, heels, sneakers, and formal shoes"},
		{ID: uuid.New(), Name: "New Arrivals", Slug: "new-arrivals", Description: "Latest additions to our collection featuring the newest trends and styles"},
	}
	for i := range cats {
		if err := db.Create(&cats[i]).Error; err != nil {
			return err
		}
	}

	byName := map[string]uuid.UUID{}
	for _, c := range cats {
		byName[c.Slug] = c.ID
	}
	prods := []domain.Product{
		{ID: uuid.New(), Name: "Classic Oxford Shirt", Slug: "classic-oxford-shirt", CategoryID: byName["mens-clothing"], Description: "Crisp cotton oxford shirt", Price: 2499, Sizes: "S,M,L,XL", Featured: true, Available: true, StockQuantity: 40},
		{ID: uuid.New(), Name: "Slim Fit Chinos", Slug: "slim-fit-chinos", CategoryID: byName["mens-clothing"], Description: "Everyday slim chinos", Price: 2999, Sizes: "30,32,34,36", Available: true, StockQuantity: 25},
		{ID: uuid.New(), Name: "Floral Summer Dress", Slug: "floral-summer-dress", CategoryID: byName["womens-clothing"], Description: "Lightweight printed dress", Price: 3499, Sizes: "XS,S,M,L", Featured: true, Available: true, StockQuantity: 18},
		{ID: uuid.New(), Name: "Silk Blouse", Slug: "silk-blouse", CategoryID: byName["womens-clothing"], Description: "Pure silk office blouse", Price: 4299, Sizes: "S,M,L", Available: true, StockQuantity: 12},
		{ID: uuid.New(), Name: "Leather Tote Bag", Slug: "leather-tote-bag", CategoryID: byName["accessories"], Description: "Full-grain leather tote", Price: 6999, Featured: true, Available: true, StockQuantity: 8},
		{ID: uuid.New(), Name: "Analog Watch", Slug: "analog-watch", CategoryID: byName["accessories"], Description: "Minimal steel-case watch", Price: 8499, Available: true, StockQuantity: 10},
		{ID: uuid.New(), Name: "White Sneakers", Slug: "white-sneakers", CategoryID: byName["shoes"], Description: "Low-top leather sneakers", Price: 4999, Sizes: "7,8,9,10,11", Featured: true, Available: true, StockQuantity: 30},
		{ID: uuid.New(), Name: "Chelsea Boots", Slug: "chelsea-boots", CategoryID: byName["shoes"], Description: "Suede chelsea boots", Price: 7499, Sizes: "8,9,10", Available: true, StockQuantity: 6},
	}
	for i := range prods {
		if err := db.Create(&prods[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
