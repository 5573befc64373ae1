package types

type AppError struct {
	Error error
	Code  int
}
