package osuservice

const (
	// CodeNotLinked means the targeted chat user has no linked osu! account.
	CodeNotLinked = 4046
	// CodeUserNotFound means the upstream service does not know the user.
	CodeUserNotFound = 4041
)

var errorMessages = map[int]string{
	CodeNotLinked: ":red_circle: **The user has not linked an osu! account**\n" +
		"Link an account with `osuset [username]` or provide a username instead",
	CodeUserNotFound: ":red_circle: **The user was not found**\n" +
		"The username used or linked does not exist on the `offical osu! servers`",
}

// ErrorMessage returns the fixed text for an error code.
func ErrorMessage(code int) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return ":red_circle: **Something went wrong**"
}

// UserError is a failure that is shown to the invoker as is. Code is zero
// for grammar and usage errors.
type UserError struct {
	Code    int
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

func coded(code int) *UserError {
	return &UserError{Code: code, Message: ErrorMessage(code)}
}

func usage(msg string) *UserError {
	return &UserError{Message: msg}
}
