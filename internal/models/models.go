package models

type Address struct {
	Street string `json:"street" cbor:"street"`
	Suite  string `json:"suite" cbor:"suite"`
	City   string `json:"city" cbor:"city"`
}

// User is a committed directory record. Address is held by value so copying a
// User never shares the address with the copy.
type User struct {
	Address  Address `json:"address" cbor:"address"`
	Name     string  `json:"name" cbor:"name"`
	Username string  `json:"username" cbor:"username"`
	Email    string  `json:"email" cbor:"email"`
	Phone    string  `json:"phone" cbor:"phone"`
	Website  string  `json:"website" cbor:"website"`
	ID       int     `json:"id" cbor:"id"`
}

// Draft is an uncommitted, caller-owned copy of a record or a blank template.
type Draft User

type SetFieldReq struct {
	Draft Draft  `json:"draft"`
	Field string `json:"field"`
	Value string `json:"value"`
}

type RemoveRes struct {
	ID      int  `json:"id"`
	Removed bool `json:"removed"`
}

type ErrorRes struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
}

type Status struct {
	State     string `json:"state"`
	LastError string `json:"last_error,omitempty"`
	Users     int    `json:"users"`
	Version   uint64 `json:"version"`
}
