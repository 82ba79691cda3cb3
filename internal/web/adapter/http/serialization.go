package http

import "firebase-web/internal/shared/errors"

// nonSerializable refuses every serialization format. Handlers embed it because they
// hold live connections and must never be persisted.
type nonSerializable struct{}

func (nonSerializable) GobEncode() ([]byte, error) {
	return nil, errors.ErrSerializationUnsupported
}

func (nonSerializable) MarshalBinary() ([]byte, error) {
	return nil, errors.ErrSerializationUnsupported
}

func (nonSerializable) MarshalJSON() ([]byte, error) {
	return nil, errors.ErrSerializationUnsupported
}
