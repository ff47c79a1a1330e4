package errors

import "errors"

// Envelope errors indicate problems with the on-disk vault format or its ciphertext.
var (
	// ErrInvalidEnvelope indicates a file does not start with the vault header.
	ErrInvalidEnvelope = errors.New("file is not a valid loq envelope")

	// ErrDecryption indicates the ciphertext failed authentication, usually a wrong key.
	ErrDecryption = errors.New("failed to decrypt ciphertext")

	// ErrEncryption indicates plaintext could not be encrypted.
	ErrEncryption = errors.New("failed to encrypt plaintext")

	// ErrInvalidKeyLength indicates the symmetric key has an unexpected length.
	ErrInvalidKeyLength = errors.New("invalid symmetric key length")

	// ErrInvalidExtension indicates a file has the wrong extension for the requested operation.
	ErrInvalidExtension = errors.New("invalid file extension")
)

// Key errors indicate a key file could not be located.
var (
	// ErrKeyNotFound indicates no key file exists for a context.
	ErrKeyNotFound = errors.New("encryption key not found")
)

// Context errors indicate issues with the context registry.
var (
	// ErrDuplicateContext indicates a context with the same name is already registered.
	ErrDuplicateContext = errors.New("context already exists")

	// ErrReservedName indicates the context name collides with a reserved word.
	ErrReservedName = errors.New("context name is reserved")

	// ErrInvalidContextName indicates the context name cannot be used as a key file name.
	ErrInvalidContextName = errors.New("invalid context name")

	// ErrNoActiveContext indicates no context was given and none is active.
	ErrNoActiveContext = errors.New("no context specified and no active context set")

	// ErrContextNotFound indicates the named context is not registered.
	ErrContextNotFound = errors.New("context not found")

	// ErrInvalidRegistry indicates the registry file is malformed.
	ErrInvalidRegistry = errors.New("context registry is invalid")
)

// Namespace errors indicate issues with a namespace in a context directory.
var (
	// ErrInvalidNamespaceFormat indicates a namespace document could not be parsed as YAML.
	ErrInvalidNamespaceFormat = errors.New("namespace is not a valid YAML document")

	// ErrUnsupportedOperation indicates an attempt to mutate a secret through the read API.
	ErrUnsupportedOperation = errors.New("operation not supported")

	// ErrNamespaceNotFound indicates no backing file exists for the namespace.
	ErrNamespaceNotFound = errors.New("namespace not found")

	// ErrInvalidNamespaceName indicates a namespace name contains a dot or path separator.
	ErrInvalidNamespaceName = errors.New("invalid namespace name")

	// ErrNamespaceExists indicates a namespace is already present in the context.
	ErrNamespaceExists = errors.New("namespace already exists")
)
