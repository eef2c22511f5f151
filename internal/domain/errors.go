package domain

type NoRunError struct{}

func (e NoRunError) Error() string {
	return "no previous runs found"
}

func IsNoRunError(err error) bool {
	_, ok := err.(NoRunError)
	return ok
}
