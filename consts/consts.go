package consts

const (
	HeaderAccessToken = "x-access-token"
	HeaderAccept      = "Accept"
	HeaderContentType = "Content-Type"

	ContentTypeJSON = "application/json"
)

// Base URL.
const (
	DefaultBaseURL = "https://prosperv21.pythonanywhere.com"
)

// Auth endpoint paths.
const (
	SignInPath  = "/api/signin"
	SignUpPath  = "/api/signup"
	ProfilePath = "/api/profile"
)

// Catalog endpoint paths.
const (
	CategoriesPath       = "/api/products/categories"
	ProductsCategoryPath = "/api/products/category" // + /{slug}
)

// Cart, order and payment endpoint paths.
const (
	CartPath     = "/api/cart"
	CheckoutPath = "/api/checkout"
	OrdersPath   = "/api/orders" // + /{id}
	PushPath     = "/api/mpesa/stkpush"
)

// Keys used in client-side persistent storage.
const (
	StorageKeyToken = "duka.token"
	StorageKeyCart  = "duka.cart"
)
