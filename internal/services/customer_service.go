package services

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"recycle-backend/internal/apperr"
	"recycle-backend/internal/models"
)

var (
	mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)
	// Keeps digits and dots; expectation arrives as free text like "5 kg".
	expectationClean = regexp.MustCompile(`[^0-9.]`)
)

// CustomerService owns signup, profile reads and profile edits.
type CustomerService struct {
	customers CustomerStore
}

func NewCustomerService(customers CustomerStore) *CustomerService {
	return &CustomerService{customers: customers}
}

// Signup registers a new customer in PENDING status.
func (s *CustomerService) Signup(ctx context.Context, req *models.SignupRequest) (*models.SignupResult, error) {
	required := []struct {
		name, value string
	}{
		{"fullName", req.FullName},
		{"email", req.Email},
		{"mobileNumber", req.MobileNumber},
		{"houseNumber", req.HouseNumber},
		{"address", req.Address},
		{"city", req.City},
		{"state", req.State},
		{"userType", req.UserType},
		{"knowAboutUs", req.KnowAboutUs},
		{"expectation", req.Expectation},
	}
	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, apperr.Validation("Missing required fields: " + strings.Join(missing, ", "))
	}

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}

	mobile := strings.TrimSpace(req.MobileNumber)
	if !mobilePattern.MatchString(mobile) {
		return nil, apperr.Validation("Invalid mobile number. Must be 10 digits.")
	}

	estWasteQty, err := parseExpectation(req.Expectation)
	if err != nil {
		return nil, err
	}

	poc, err := normalizeAlternate(req.AlternateContact)
	if err != nil {
		return nil, err
	}

	id, err := s.customers.NextID(ctx)
	if err != nil {
		// Allocation is best effort; the very first row starts the sequence.
		log.Printf("[Customer] id allocation failed, using base id: %v", err)
		id = "1001"
	}

	customer := &models.Customer{
		ID:          id,
		Name:        strings.TrimSpace(req.FullName),
		ContactNo:   "+91" + mobile,
		Email:       email,
		Address:     strings.TrimSpace(req.HouseNumber) + ", " + strings.TrimSpace(req.Address),
		City:        strings.TrimSpace(req.City),
		State:       strings.TrimSpace(req.State),
		EstWasteQty: &estWasteQty,
		POC:         poc,
		UserType:    models.UserTypeFromLabel(req.UserType),
		Reference:   strings.TrimSpace(req.KnowAboutUs),
		Status:      models.StatusPending,
		AreaID:      0,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		CreatedBy:   "APP",
		UpdatedBy:   "APP",
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			return nil, err
		}
		return nil, apperr.Internal("Registration failed. Please try again.", err)
	}

	log.Printf("[Customer] registered %s (%s)", customer.ID, email)
	return &models.SignupResult{
		FullName:     customer.Name,
		Email:        customer.Email,
		MobileNumber: mobile,
		Status:       customer.Status,
	}, nil
}

// EditProfile updates an approved customer's details. Only fields present in
// the request are touched.
func (s *CustomerService) EditProfile(ctx context.Context, req *models.EditProfileRequest) (*models.Profile, error) {
	if strings.TrimSpace(req.CustomerID) == "" {
		return nil, apperr.Validation("Customer ID is required")
	}

	customer, err := s.customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Customer not found")
		}
		return nil, apperr.Internal("Failed to load customer", err)
	}

	if customer.Status != models.StatusApproved {
		return nil, apperr.Forbidden("Your profile is under consideration. Cannot edit profile at this time.")
	}

	fields := map[string]interface{}{}

	if req.FullName != nil {
		fields["customer_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		fields["email"] = email
	}

	// The stored address is "house, street". When either half changes, the
	// other half is re-derived from the stored value so the combined form
	// stays consistent.
	if req.HouseNumber != nil || req.Address != nil {
		house, street := splitAddress(customer.Address)
		if req.HouseNumber != nil {
			house = strings.TrimSpace(*req.HouseNumber)
		}
		if req.Address != nil {
			street = strings.TrimSpace(*req.Address)
		}
		fields["address"] = house + ", " + street
	}

	if req.City != nil {
		fields["city"] = strings.TrimSpace(*req.City)
	}
	if req.State != nil {
		fields["state"] = strings.TrimSpace(*req.State)
	}
	if req.UserType != nil {
		fields["user_type"] = models.UserTypeFromLabel(*req.UserType)
	}
	if req.Expectation != nil {
		qty, err := parseExpectation(*req.Expectation)
		if err != nil {
			return nil, err
		}
		fields["est_waste_qty"] = qty
	}
	if req.AlternateContact != nil {
		poc, err := normalizeAlternate(*req.AlternateContact)
		if err != nil {
			return nil, err
		}
		fields["poc"] = poc
	}
	if req.KnowAboutUs != nil {
		fields["reference"] = strings.TrimSpace(*req.KnowAboutUs)
	}
	if req.Latitude != nil {
		fields["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		fields["longitude"] = *req.Longitude
	}

	if len(fields) == 0 {
		return nil, apperr.Validation("No fields provided for update")
	}

	if err := s.customers.Update(ctx, req.CustomerID, fields); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Customer not found")
		}
		if apperr.KindOf(err) == apperr.KindConflict {
			return nil, err
		}
		return nil, apperr.Internal("Failed to update profile", err)
	}

	updated, err := s.customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, apperr.Internal("Failed to load updated profile", err)
	}
	return ProfileFromCustomer(updated), nil
}

// GetProfile returns the reshaped profile for one customer.
func (s *CustomerService) GetProfile(ctx context.Context, customerID string) (*models.Profile, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, apperr.Validation("Customer ID is required")
	}
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Customer not found")
		}
		return nil, apperr.Internal("Failed to load customer", err)
	}
	return ProfileFromCustomer(customer), nil
}

// ResolveByMobile finds a customer by bare 10-digit mobile, returning
// (nil, nil) when no row matches.
func (s *CustomerService) ResolveByMobile(ctx context.Context, mobile string) (*models.Customer, error) {
	customer, err := s.customers.FindByMobile(ctx, mobile)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Internal("Failed to look up customer", err)
	}
	return customer, nil
}

// ProfileFromCustomer reshapes a stored row into API field names.
func ProfileFromCustomer(c *models.Customer) *models.Profile {
	house, street := splitAddress(c.Address)

	expectation := ""
	if c.EstWasteQty != nil {
		expectation = strconv.FormatFloat(*c.EstWasteQty, 'f', -1, 64)
	}

	alternate := ""
	if c.POC != nil {
		alternate = stripCountryCode(*c.POC)
	}

	return &models.Profile{
		CustomerID:       c.ID,
		CustomerName:     c.Name,
		Email:            c.Email,
		MobileNumber:     stripCountryCode(c.ContactNo),
		HouseNumber:      house,
		Address:          street,
		City:             c.City,
		State:            c.State,
		UserType:         models.LabelFromUserType(c.UserType),
		Expectation:      expectation,
		AlternateContact: alternate,
		KnowAboutUs:      c.Reference,
		Latitude:         c.Latitude,
		Longitude:        c.Longitude,
		Status:           c.Status,
	}
}

// splitAddress undoes the "house, street" join on the first comma. Addresses
// stored without a comma read back with an empty house number.
func splitAddress(combined string) (house, street string) {
	if i := strings.Index(combined, ","); i >= 0 {
		return strings.TrimSpace(combined[:i]), strings.TrimSpace(combined[i+1:])
	}
	return "", strings.TrimSpace(combined)
}

func stripCountryCode(contact string) string {
	contact = strings.TrimPrefix(contact, "+91")
	return strings.TrimLeft(contact, "/")
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	at := strings.LastIndex(email, "@")
	if at <= 0 || !strings.Contains(email[at+1:], ".") {
		return "", apperr.Validation("Invalid email address")
	}
	return email, nil
}

func parseExpectation(raw string) (float64, error) {
	cleaned := expectationClean.ReplaceAllString(raw, "")
	qty, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || qty <= 0 {
		return 0, apperr.Validation("Invalid expectation value")
	}
	return qty, nil
}

// normalizeAlternate validates an optional alternate contact. Empty input
// clears the stored value (nil), ten digits get the +91 prefix.
func normalizeAlternate(raw string) (*string, error) {
	alt := strings.TrimSpace(raw)
	if alt == "" {
		return nil, nil
	}
	if !mobilePattern.MatchString(alt) {
		return nil, apperr.Validation("Invalid alternate contact number. Must be 10 digits.")
	}
	poc := "+91" + alt
	return &poc, nil
}
