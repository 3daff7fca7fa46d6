package types

// Body of every non-2xx response
type Error struct {
	Error string `json:"error"`
}

func StringError(err string) Error {
	return Error{Error: err}
}
