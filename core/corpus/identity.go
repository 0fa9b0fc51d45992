package corpus

import (
	"github.com/google/uuid"
)

// DefaultNamespaceName is the name the poem namespace is derived from.
const DefaultNamespaceName = "brunolugano.poetry"

// PoemNamespace is the uuid namespace of poem ids.
var PoemNamespace = NewNamespace(DefaultNamespaceName)

// NewNamespace derives a poem namespace from a name within the DNS namespace.
func NewNamespace(name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(name))
}

// AssignID returns the id of a poem text: a version 5 uuid of the text
// within PoemNamespace. The same text always gets the same id.
func AssignID(text string) uuid.UUID {
	return AssignIDIn(PoemNamespace, text)
}

// AssignIDIn returns the version 5 uuid of text within namespace.
func AssignIDIn(namespace uuid.UUID, text string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(text))
}
