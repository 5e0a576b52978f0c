package model

// PropertyStatus is the catalog's display status for a listing.
//
// Status is presentational: the catalog is read-only and user purchases never
// write a status transition back to it. When deciding what a user owns or
// rents, the user's holdings are authoritative — never this field.
type PropertyStatus string

const (
	StatusForSale PropertyStatus = "FOR_SALE"
	StatusForRent PropertyStatus = "FOR_RENT"
	StatusOwned   PropertyStatus = "OWNED"
	StatusRented  PropertyStatus = "RENTED"
)

// Size holds the land and building areas in square metres.
type Size struct {
	Land     int `json:"land"`
	Building int `json:"building"`
}

// Specifications are the legal/technical details shown on a listing.
type Specifications struct {
	Certificate string `json:"certificate"`
	Electricity string `json:"electricity"`
	Floors      int    `json:"floors"`
}

// Facilities flags the amenities available at a property.
type Facilities struct {
	SwimmingPool bool `json:"swimmingPool"`
	Gym          bool `json:"gym"`
	Security     bool `json:"security"`
	Playground   bool `json:"playground"`
	Parking      bool `json:"parking"`
	Internet     bool `json:"internet"`
}

// NearbyAttractions lists the distance or name of points of interest
// around a property, as free-form display strings.
type NearbyAttractions struct {
	ShoppingMall string `json:"shoppingMall"`
	Park         string `json:"park"`
	Hospital     string `json:"hospital"`
	School       string `json:"school"`
	TrainStation string `json:"trainStation"`
	Supermarket  string `json:"supermarket"`
}

// Property is one read-only catalog listing.
//
// Price and PricePerMonth are raw rupiah amounts (non-negative integers).
// Display formatting lives in internal/money; storage and calculation always
// use the raw integer. PricePerMonth is zero for sale-only listings.
type Property struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Location          string            `json:"location"`
	Type              string            `json:"type"`
	Status            PropertyStatus    `json:"status"`
	Price             int64             `json:"price"`
	PricePerMonth     int64             `json:"pricePerMonth,omitempty"`
	Bedrooms          int               `json:"bedrooms"`
	Bathrooms         int               `json:"bathrooms"`
	Size              Size              `json:"size"`
	Specifications    Specifications    `json:"specifications"`
	Facilities        Facilities        `json:"facilities"`
	NearbyAttractions NearbyAttractions `json:"nearbyAttractions"`
	MainImage         string            `json:"mainImage"`
	Thumbnails        []string          `json:"thumbnails"`
	Description       string            `json:"description"`
	PublishedDate     string            `json:"publishedDate,omitempty"`
	ContractEndDate   string            `json:"contractEndDate,omitempty"`
}
