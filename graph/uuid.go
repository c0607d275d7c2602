package graph

import (
	"fmt"
	"io"
	"strconv"

	"github.com/99designs/gqlgen/graphql"
	"github.com/google/uuid"
)

func MarshalUUID(id uuid.UUID) graphql.Marshaler {
	return graphql.WriterFunc(func(w io.Writer) {
		io.WriteString(w, strconv.Quote(id.String()))
	})
}

func UnmarshalUUID(i interface{}) (uuid.UUID, error) {
	s, ok := i.(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("%T is not a uuid string", i)
	}
	return uuid.Parse(s)
}
