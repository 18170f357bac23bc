package model

// All lists every model the database has to know about
func All() []any {
	return []any{&User{}, &OTP{}, &Media{}, &Contact{}}
}
