package models

import "time"

// Customer lifecycle status. Creation always produces StatusPending; the
// transition to APPROVED (or REJECTED) happens in the back-office system,
// never through this service.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Stored user-type categories.
const (
	UserTypeResidential   = "RESIDENTIAL"
	UserTypeInstitutional = "INSTITUTIONAL"
	UserTypeCommercial    = "COMMERCIAL"
	UserTypeOthers        = "OTHERS"
)

// userTypeByLabel maps the labels the mobile app sends to stored enum values.
// Unrecognized labels fall back to OTHERS.
var userTypeByLabel = map[string]string{
	"Household Apartment": UserTypeResidential,
	"School/Institution":  UserTypeInstitutional,
	"Office":              UserTypeCommercial,
	"Shop":                UserTypeCommercial,
	"Other":               UserTypeOthers,
}

// labelByUserType is the reverse mapping used when reshaping rows back into
// API responses. The mapping is lossy: "Shop" also stores COMMERCIAL, which
// reads back as "Office".
var labelByUserType = map[string]string{
	UserTypeResidential:   "Household Apartment",
	UserTypeInstitutional: "School/Institution",
	UserTypeCommercial:    "Office",
	UserTypeOthers:        "Other",
}

// UserTypeFromLabel resolves an app-facing label to its stored value.
func UserTypeFromLabel(label string) string {
	if v, ok := userTypeByLabel[label]; ok {
		return v
	}
	return UserTypeOthers
}

// LabelFromUserType resolves a stored value back to an app-facing label.
func LabelFromUserType(userType string) string {
	if v, ok := labelByUserType[userType]; ok {
		return v
	}
	return "Other"
}

// Customer is one row of b2c_customer_master.
type Customer struct {
	ID          string    `json:"customerId"`
	Name        string    `json:"customerName"`
	ContactNo   string    `json:"contactNo"`
	Email       string    `json:"email"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	EstWasteQty *float64  `json:"estWasteQty,omitempty"`
	POC         *string   `json:"poc,omitempty"`
	UserType    string    `json:"userType"`
	Reference   string    `json:"reference"`
	Status      string    `json:"status"`
	AreaID      int       `json:"areaId"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	UpdatedBy   string    `json:"updatedBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SignupRequest is the POST /api/signup body.
type SignupRequest struct {
	FullName         string   `json:"fullName"`
	Email            string   `json:"email"`
	MobileNumber     string   `json:"mobileNumber"`
	HouseNumber      string   `json:"houseNumber"`
	Address          string   `json:"address"`
	City             string   `json:"city"`
	State            string   `json:"state"`
	UserType         string   `json:"userType"`
	KnowAboutUs      string   `json:"knowAboutUs"`
	Expectation      string   `json:"expectation"`
	AlternateContact string   `json:"alternateContact"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
}

// SignupResult is the created-customer summary returned on 201.
type SignupResult struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobileNumber"`
	Status       string `json:"status"`
}

// EditProfileRequest is the PUT /api/profile/edit body. Pointer fields
// distinguish "absent" from "present but empty": an empty alternateContact
// clears the stored value, an empty houseNumber triggers re-derivation from
// the stored combined address.
type EditProfileRequest struct {
	CustomerID       string   `json:"customerId"`
	FullName         *string  `json:"fullName"`
	Email            *string  `json:"email"`
	HouseNumber      *string  `json:"houseNumber"`
	Address          *string  `json:"address"`
	City             *string  `json:"city"`
	State            *string  `json:"state"`
	UserType         *string  `json:"userType"`
	Expectation      *string  `json:"expectation"`
	AlternateContact *string  `json:"alternateContact"`
	KnowAboutUs      *string  `json:"knowAboutUs"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
}

// Profile is a customer row reshaped into API field names: user type mapped
// back to its label, +91 prefixes stripped, combined address split back into
// its house and street halves.
type Profile struct {
	CustomerID       string   `json:"customerId"`
	CustomerName     string   `json:"customerName"`
	Email            string   `json:"email"`
	MobileNumber     string   `json:"mobileNumber"`
	HouseNumber      string   `json:"houseNumber"`
	Address          string   `json:"address"`
	City             string   `json:"city"`
	State            string   `json:"state"`
	UserType         string   `json:"userType"`
	Expectation      string   `json:"expectation"`
	AlternateContact string   `json:"alternateContact"`
	KnowAboutUs      string   `json:"knowAboutUs"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	Status           string   `json:"status"`
}
