package candidate

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Country-wise phone rules (calling code : required digits).
var countryPhoneRules = map[string]int{
	"+91":  10,
	"+1":   10,
	"+44":  10,
	"+61":  9,
	"+81":  10,
	"+49":  11,
	"+971": 9,
	"+65":  8,
}

// callingCodes holds the known codes sorted longest-first so prefix
// matching never picks a shorter code that shadows a longer one.
var callingCodes = func() []string {
	codes := make([]string, 0, len(countryPhoneRules))
	for code := range countryPhoneRules {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if len(codes[i]) != len(codes[j]) {
			return len(codes[i]) > len(codes[j])
		}
		return codes[i] < codes[j]
	})
	return codes
}()

var emailRe = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

// requiredFields in check order; first missing field wins.
var requiredFields = []struct {
	get   func(Input) string
	label string
}{
	{func(in Input) string { return in.Name }, "Candidate Name"},
	{func(in Input) string { return in.Email }, "Email"},
	{func(in Input) string { return in.Phone }, "Phone"},
	{func(in Input) string { return in.Status }, "Status"},
	{func(in Input) string { return in.CountryCode }, "Country Code"},
}

// Validate checks a raw candidate and returns its normalized record.
// Checks run in a fixed order (required fields, email, phone, status)
// and the first failure is the one reported, so callers always get a
// single deterministic reason.
func Validate(in Input) (Candidate, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Skills = strings.TrimSpace(in.Skills)
	in.Phone = strings.TrimSpace(in.Phone)
	in.CountryCode = strings.TrimSpace(in.CountryCode)
	in.Email = strings.TrimSpace(in.Email)
	in.Location = strings.TrimSpace(in.Location)
	in.AvailableTime = strings.TrimSpace(in.AvailableTime)
	in.Status = strings.TrimSpace(in.Status)
	in.Notes = strings.TrimSpace(in.Notes)

	for _, f := range requiredFields {
		if f.get(in) == "" {
			return Candidate{}, fmt.Errorf("%s is required.", f.label)
		}
	}

	email := strings.ToLower(in.Email)
	if !emailRe.MatchString(email) {
		return Candidate{}, errors.New("Invalid email format.")
	}

	phone, err := normalizePhone(in.Phone, in.CountryCode)
	if err != nil {
		return Candidate{}, err
	}

	if !validStatus(in.Status) {
		return Candidate{}, fmt.Errorf("Status must be one of %s.", strings.Join(AllowedStatuses, ", "))
	}

	return Candidate{
		Name:          in.Name,
		Skills:        in.Skills,
		Phone:         phone,
		Email:         email,
		Location:      in.Location,
		AvailableTime: in.AvailableTime,
		Status:        in.Status,
		Notes:         in.Notes,
	}, nil
}

func normalizePhone(phone, countryCode string) (string, error) {
	for _, r := range phone {
		if r < '0' || r > '9' {
			return "", errors.New("Phone number must contain only digits.")
		}
	}

	required, ok := countryPhoneRules[countryCode]
	if !ok {
		return "", errors.New("Unsupported country code.")
	}

	if len(phone) != required {
		return "", fmt.Errorf("Phone number must be %d digits.", required)
	}

	return countryCode + phone, nil
}

// SplitCallingCode splits a normalized phone ("+<code><digits>") back
// into its calling code and national digits. Lets exported records,
// whose phone column already carries the code, re-import cleanly.
func SplitCallingCode(phone string) (code, digits string, ok bool) {
	if !strings.HasPrefix(phone, "+") {
		return "", "", false
	}
	for _, c := range callingCodes {
		if strings.HasPrefix(phone, c) {
			return c, phone[len(c):], true
		}
	}
	return "", "", false
}
