package handler

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Registration field limits. Username and password also have minimum
// lengths; the maximums mirror the column sizes of the users table.
const (
	usernameMinLen = 3
	usernameMaxLen = 80
	passwordMinLen = 6
	passwordMaxLen = 100
	nameMaxLen     = 100
	titleMaxLen    = 50
)

// ValidateRegistration checks a registration payload and returns a map from
// field name to error message. An empty map means the payload is valid. The
// function is pure: it never touches storage, so a valid payload can still
// fail later on a duplicate username.
func ValidateRegistration(req RegisterRequest) map[string]string {
	errs := map[string]string{}

	required := map[string]string{
		"firstname": req.Firstname,
		"lastname":  req.Lastname,
		"username":  req.Username,
		"password":  req.Password,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			errs[field] = capitalize(field) + " is required"
		}
	}

	if username := strings.TrimSpace(req.Username); username != "" {
		if utf8.RuneCountInString(username) < usernameMinLen {
			errs["username"] = "Username must be at least 3 characters long"
		}
		if utf8.RuneCountInString(username) > usernameMaxLen {
			errs["username"] = "Username must be less than 80 characters"
		}
	}

	if req.Password != "" {
		if utf8.RuneCountInString(req.Password) < passwordMinLen {
			errs["password"] = "Password must be at least 6 characters long"
		}
		if utf8.RuneCountInString(req.Password) > passwordMaxLen {
			errs["password"] = "Password must be less than 100 characters"
		}
	}

	if firstname := strings.TrimSpace(req.Firstname); utf8.RuneCountInString(firstname) > nameMaxLen {
		errs["firstname"] = "First name must be less than 100 characters"
	}
	if lastname := strings.TrimSpace(req.Lastname); utf8.RuneCountInString(lastname) > nameMaxLen {
		errs["lastname"] = "Last name must be less than 100 characters"
	}
	if title := strings.TrimSpace(req.Title); utf8.RuneCountInString(title) > titleMaxLen {
		errs["title"] = "Title must be less than 50 characters"
	}

	return errs
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// validationDetails flattens the field->message map into a deterministic
// list for the response body, ordered by field name.
func validationDetails(errs map[string]string) []string {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	details := make([]string, 0, len(errs))
	for _, field := range fields {
		details = append(details, errs[field])
	}
	return details
}
