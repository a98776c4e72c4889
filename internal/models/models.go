package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"              json:"id"`
	Name      string    `gorm:"size:50;not null"                  json:"name"`
	Email     string    `gorm:"size:320;uniqueIndex;not null"     json:"email"`
	Password  string    `gorm:"size:72;not null"                  json:"-"`
	Role      string    `gorm:"size:20;not null"                  json:"role"`
	Tel       string    `gorm:"size:50"                           json:"tel"`
	Address   string    `gorm:"size:320"                          json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Category struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"size:50;not null"     json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index"                json:"-"`
}

type Tag struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"size:50;not null"     json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index"                json:"-"`
}

type Product struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey"          json:"id"`
	CategoryID  uuid.UUID                   `gorm:"type:uuid;not null;index"      json:"category_id"`
	Category    Category                    `gorm:"foreignKey:CategoryID"         json:"-"`
	Name        string                      `gorm:"size:50;not null"              json:"name"`
	Description string                      `gorm:"size:200;not null"             json:"description"`
	ImageURL    string                      `gorm:"size:2048;not null"            json:"image_url"`
	Price       int64                       `gorm:"not null;check:price >= 0"     json:"price"`
	OriginPrice int64                       `gorm:"not null;check:origin_price >= 0" json:"origin_price"`
	Colors      datatypes.JSONSlice[string] `gorm:"not null"                      json:"colors"`
	Spec        datatypes.JSONSlice[string] `gorm:"not null"                      json:"spec"`
	Enable      bool                        `gorm:"not null"                      json:"enable"`
	Tags        []ProductTag                `gorm:"foreignKey:ProductID"          json:"-"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
	DeletedAt   gorm.DeletedAt              `gorm:"index"                         json:"-"`
}

// ProductTag links a product to a tag; the pair is the identity.
type ProductTag struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey" json:"product_id"`
	TagID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"tag_id"`
	Tag       Tag       `gorm:"foreignKey:TagID"     json:"-"`
}

type Order struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey"                          json:"id"`
	UserID        uuid.UUID   `gorm:"type:uuid;not null;index"                      json:"user_id"`
	User          User        `gorm:"foreignKey:UserID"                             json:"-"`
	Name          string      `gorm:"size:50;not null"                              json:"name"`
	Tel           string      `gorm:"size:50;not null"                              json:"tel"`
	Address       string      `gorm:"size:320;not null"                             json:"address"`
	IsPaid        bool        `gorm:"not null"                                      json:"is_paid"`
	PaidAt        *time.Time  `json:"paid_at"`
	PaymentMethod int16       `gorm:"not null;check:payment_method BETWEEN 1 AND 3" json:"payment_method"`
	Lines         []OrderLine `gorm:"foreignKey:OrderID"                            json:"lines,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// OrderLine is identified by (order, product); writing the same pair again
// overwrites quantity, spec and color.
type OrderLine struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"        json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"        json:"products_id"`
	Product   Product   `gorm:"foreignKey:ProductID"        json:"-"`
	Quantity  int       `gorm:"not null;check:quantity >= 0" json:"quantity"`
	Spec      string    `gorm:"size:100;not null"           json:"spec"`
	Color     string    `gorm:"size:100;not null"           json:"colors"`
}

func (u *User) BeforeCreate(*gorm.DB) error     { u.ID = ensureID(u.ID); return nil }
func (c *Category) BeforeCreate(*gorm.DB) error { c.ID = ensureID(c.ID); return nil }
func (t *Tag) BeforeCreate(*gorm.DB) error      { t.ID = ensureID(t.ID); return nil }
func (p *Product) BeforeCreate(*gorm.DB) error  { p.ID = ensureID(p.ID); return nil }
func (o *Order) BeforeCreate(*gorm.DB) error    { o.ID = ensureID(o.ID); return nil }

func ensureID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}

// All lists every table in migration order.
func All() []any {
	return []any{
		&User{},
		&Category{},
		&Tag{},
		&Product{},
		&ProductTag{},
		&Order{},
		&OrderLine{},
	}
}

func (c Category) Ident() (uuid.UUID, string) { return c.ID, c.Name }
func (t Tag) Ident() (uuid.UUID, string)      { return t.ID, t.Name }
