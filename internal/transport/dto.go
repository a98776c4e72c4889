package transport

// Request bodies use pointers so a missing field is told apart from its zero
// value; numbers decode as float64 so fractions can be rejected.

type Recipient struct {
	Name    *string `json:"name"    validate:"required,recipient"`
	Tel     *string `json:"tel"     validate:"required,twmobile"`
	Address *string `json:"address" validate:"required,textlen=1-30"`
}

type OrderLineRequest struct {
	ProductID *string  `json:"products_id" validate:"required,uuidstr"`
	Quantity  *float64 `json:"quantity"    validate:"required,wholenum"`
	Spec      *string  `json:"spec"        validate:"required,textlen=1-100"`
	Colors    *string  `json:"colors"      validate:"required,textlen=1-100"`
}

type CreateOrderRequest struct {
	User           *Recipient         `json:"user"            validate:"required"`
	Orders         []OrderLineRequest `json:"orders"          validate:"required,min=1,dive"`
	PaymentMethods *float64           `json:"payment_methods" validate:"required,payment"`
}

type ProductRequest struct {
	CategoryID  *string  `json:"category_id"  validate:"required,uuidstr"`
	TagsID      []string `json:"tags_id"      validate:"required,min=1,dive,uuidstr"`
	Name        *string  `json:"name"         validate:"required,textlen=3-50"`
	Price       *float64 `json:"price"        validate:"required,wholenum"`
	Description *string  `json:"description"  validate:"required,textlen=3-200"`
	ImageURL    *string  `json:"image_url"    validate:"required,https"`
	OriginPrice *float64 `json:"origin_price" validate:"required,wholenum"`
	Colors      []string `json:"colors"       validate:"required,min=1,dive,textlen=2-10"`
	Spec        []string `json:"spec"         validate:"required,min=1,dive,textlen=2-10"`
	Enable      *bool    `json:"enable"       validate:"required"`
}

type NameRequest struct {
	Name *string `json:"name" validate:"required,textlen=2-10"`
}

type SignupRequest struct {
	Name     *string `json:"name"     validate:"required,textlen=2-10"`
	Email    *string `json:"email"    validate:"required,emailshape"`
	Password *string `json:"password" validate:"required,textlen=1-0"`
}

type SigninRequest struct {
	Email    *string `json:"email"    validate:"required,emailshape"`
	Password *string `json:"password" validate:"required,textlen=1-0"`
}

// ProfileRequest only checks presence; tel and address rules carry their own
// messages and are enforced by the user service.
type ProfileRequest struct {
	Name    *string `json:"name"    validate:"required,textlen=1-50"`
	Tel     *string `json:"tel"     validate:"required,textlen=1-0"`
	Address *string `json:"address" validate:"required,textlen=1-0"`
}

type PasswordRequest struct {
	Password        *string `json:"password"             validate:"required,textlen=1-0"`
	NewPassword     *string `json:"new_password"         validate:"required,textlen=1-0"`
	ConfirmPassword *string `json:"confirm_new_password" validate:"required,textlen=1-0"`
}

type RoleRequest struct {
	Role *string `json:"role" validate:"required,role"`
}

type Response struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPage   int64 `json:"total_page"`
}

type TagRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ProductDetail struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	OriginPrice int64    `json:"origin_price"`
	Price       int64    `json:"price"`
	Enable      *bool    `json:"enable,omitempty"`
	Colors      []string `json:"colors"`
	Spec        []string `json:"spec"`
	Category    string   `json:"category"`
	Tags        []TagRef `json:"tags"`
}

type ProductSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	OriginPrice int64  `json:"origin_price"`
	Price       int64  `json:"price"`
	Enable      *bool  `json:"enable,omitempty"`
}

type ProductPage struct {
	Pagination Pagination       `json:"pagination"`
	Products   []ProductSummary `json:"products"`
}

type NamedItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SigninData struct {
	Token string         `json:"token"`
	User  SigninDataUser `json:"user"`
}

type SigninDataUser struct {
	Name string `json:"name"`
}

type Profile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Tel     string `json:"tel"`
	Address string `json:"address"`
}

// NamedPage is the admin listing shape for categories and tags: rows and
// pagination sit next to the message.
type NamedPage struct {
	Message    string      `json:"message"`
	Data       []NamedItem `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

type RoleResponse struct {
	Message string `json:"message"`
	Role    string `json:"role"`
}

type OrderPage struct {
	Pagination Pagination `json:"pagination"`
	Orders     any        `json:"orders"`
}
