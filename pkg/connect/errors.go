package connect

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies an Error by where it originated.
type Kind int

const (
	// KindUnknown is the zero Kind. Sentinels with KindUnknown match on
	// Resource alone.
	KindUnknown Kind = iota
	// KindAuth covers missing or rejected credentials and failed token
	// exchanges.
	KindAuth
	// KindNetwork covers transport failures: timeouts, refused connections,
	// exhausted rate limits and malformed response envelopes.
	KindNetwork
	// KindInvalidArgument is returned before any network call when the
	// caller passes a malformed model or option combination.
	KindInvalidArgument
	// KindAPI is a validation or business-rule rejection reported by the
	// remote service.
	KindAPI
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindNetwork:
		return "network"
	case KindInvalidArgument:
		return "invalid argument"
	case KindAPI:
		return "api"
	default:
		return "unknown"
	}
}

// Resource names the resource family an Error belongs to.
type Resource string

// Resource families exposed by the Connect API.
const (
	ResourceDesign        Resource = "design"
	ResourceOrder         Resource = "order"
	ResourceProduct       Resource = "product"
	ResourceProductExport Resource = "product_export"
	ResourceProductImport Resource = "product_import"
	ResourceCarrier       Resource = "carrier"
	ResourceCountry       Resource = "country"
	ResourceLocale        Resource = "locale"
	ResourceState         Resource = "state"
	ResourceTimezone      Resource = "timezone"
	ResourceGeneral       Resource = "general"
)

// Error is the single error type returned by the client. Use errors.Is
// with the package sentinels to branch on Kind and Resource, or
// errors.As to read Status and the field errors.
type Error struct {
	Kind     Kind
	Resource Resource
	// Op is the repository operation, e.g. "designs.submit".
	Op      string
	Status  int
	Message string
	// Errors holds field-level validation messages reported by the API.
	Errors map[string][]string
	Err    error
}

// Sentinels for errors.Is. The per-resource sentinels match only
// server-reported (KindAPI) errors for that resource.
var (
	ErrAuth            = &Error{Kind: KindAuth}
	ErrNetwork         = &Error{Kind: KindNetwork}
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument}
	ErrAPI             = &Error{Kind: KindAPI}

	ErrDesign        = &Error{Kind: KindAPI, Resource: ResourceDesign}
	ErrOrder         = &Error{Kind: KindAPI, Resource: ResourceOrder}
	ErrProduct       = &Error{Kind: KindAPI, Resource: ResourceProduct}
	ErrProductExport = &Error{Kind: KindAPI, Resource: ResourceProductExport}
	ErrProductImport = &Error{Kind: KindAPI, Resource: ResourceProductImport}
	ErrCarrier       = &Error{Kind: KindAPI, Resource: ResourceCarrier}
	ErrCountry       = &Error{Kind: KindAPI, Resource: ResourceCountry}
	ErrLocale        = &Error{Kind: KindAPI, Resource: ResourceLocale}
	ErrState         = &Error{Kind: KindAPI, Resource: ResourceState}
	ErrTimezone      = &Error{Kind: KindAPI, Resource: ResourceTimezone}
	ErrGeneral       = &Error{Kind: KindAPI, Resource: ResourceGeneral}
)

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Resource != "" {
		b.WriteString(string(e.Resource))
		b.WriteByte(' ')
	}
	b.WriteString(e.Kind.String())
	b.WriteString(" error")
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	for _, field := range e.fieldNames() {
		if field == "" {
			fmt.Fprintf(&b, "; %s", strings.Join(e.Errors[field], ", "))
			continue
		}
		fmt.Fprintf(&b, "; %s: %s", field, strings.Join(e.Errors[field], ", "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error whose non-zero Kind and Resource
// both match e.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind == KindUnknown && t.Resource == "" {
		return false
	}
	if t.Kind != KindUnknown && t.Kind != e.Kind {
		return false
	}
	return t.Resource == "" || t.Resource == e.Resource
}

func (e *Error) fieldNames() []string {
	names := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// KindOf returns the Kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

func invalidArgument(res Resource, op string, err error) *Error {
	return &Error{Kind: KindInvalidArgument, Resource: res, Op: op, Message: err.Error()}
}

func invalidArgumentf(res Resource, op, format string, args ...any) *Error {
	return &Error{
		Kind:     KindInvalidArgument,
		Resource: res,
		Op:       op,
		Message:  fmt.Sprintf(format, args...),
	}
}

func malformedResponse(res Resource, op string, status int, err error) *Error {
	return &Error{
		Kind:     KindNetwork,
		Resource: res,
		Op:       op,
		Status:   status,
		Message:  "malformed response body",
		Err:      err,
	}
}

// apiErrorBody covers both the Laravel validation shape and the OAuth
// error shape.
type apiErrorBody struct {
	Message          string          `json:"message"`
	Errors           json.RawMessage `json:"errors"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

// responseError converts a 4xx/5xx response into an *Error. 401 and 403
// become KindAuth; everything else is KindAPI for the resource.
func responseError(res Resource, op string, resp *Response) *Error {
	e := &Error{Kind: KindAPI, Resource: res, Op: op, Status: resp.Status}
	if resp.Status == http.StatusUnauthorized || resp.Status == http.StatusForbidden {
		e.Kind = KindAuth
	}

	var body apiErrorBody
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		e.Message = strings.TrimSpace(string(resp.Body))
		if e.Message == "" {
			e.Message = http.StatusText(resp.Status)
		}
		return e
	}

	switch {
	case body.Message != "":
		e.Message = body.Message
	case body.ErrorDescription != "":
		e.Message = body.ErrorDescription
	case body.Error != "":
		e.Message = body.Error
	default:
		e.Message = http.StatusText(resp.Status)
	}
	e.Errors = decodeFieldErrors(body.Errors)
	return e
}

// decodeFieldErrors accepts {"field": ["msg"]}, {"field": "msg"} or
// ["msg"]; list entries are stored under the empty key.
func decodeFieldErrors(raw json.RawMessage) map[string][]string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var byField map[string][]string
	if err := json.Unmarshal(raw, &byField); err == nil {
		return byField
	}

	var single map[string]string
	if err := json.Unmarshal(raw, &single); err == nil {
		out := make(map[string][]string, len(single))
		for k, v := range single {
			out[k] = []string{v}
		}
		return out
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return map[string][]string{"": list}
	}
	return nil
}

// withResource fills in the resource and op on an *Error produced below
// the repository layer.
func withResource(err error, res Resource, op string) error {
	var ce *Error
	if !errors.As(err, &ce) {
		return &Error{Kind: KindNetwork, Resource: res, Op: op, Err: err}
	}
	if ce.Resource == "" {
		ce.Resource = res
	}
	if ce.Op == "" {
		ce.Op = op
	}
	return ce
}
