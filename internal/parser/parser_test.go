package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSource_ServiceInterface(t *testing.T) {
	p := NewParser()

	source := `package services

import "context"

//clientwire::service
type UserService interface {
	//clientwire::call GET /users/{id}
	GetUser(ctx context.Context, id string) (User, error)

	//clientwire::call DELETE /users/{id}
	DeleteUser(ctx context.Context, id string) error

	Ping() error
}

type User struct {
	ID   string
	Name string
}
`

	metadata, err := p.ParseSource("user_service.go", source)
	require.NoError(t, err)
	require.Len(t, metadata.Services, 1)
	assert.Empty(t, metadata.Warnings)

	service := metadata.Services[0]
	assert.Equal(t, "UserService", service.Name)
	assert.True(t, service.HasMethods())
	assert.Equal(t, "services", service.PackageName)
	assert.Equal(t, "user_service.go", service.FileName)
	require.Len(t, service.Methods, 3)

	getUser := service.Methods[0]
	assert.Equal(t, "GetUser", getUser.Name)
	assert.True(t, getUser.HasContext)
	require.Len(t, getUser.Params, 1)
	assert.Equal(t, "id", getUser.Params[0].Name)
	assert.Equal(t, "string", getUser.Params[0].Type)
	assert.Equal(t, []string{"User"}, getUser.Results)
	require.NotNil(t, getUser.Call)
	assert.Equal(t, "GET", getUser.Call.HTTPMethod)
	assert.Equal(t, "/users/{id}", getUser.Call.Path)

	deleteUser := service.Methods[1]
	assert.True(t, deleteUser.HasContext)
	assert.Empty(t, deleteUser.Results)
	require.NotNil(t, deleteUser.Call)
	assert.Equal(t, "DELETE", deleteUser.Call.HTTPMethod)

	ping := service.Methods[2]
	assert.False(t, ping.HasContext)
	assert.Empty(t, ping.Params)
	assert.Nil(t, ping.Call)
}

func TestParseSource_EmptyInterface(t *testing.T) {
	p := NewParser()

	source := `package services

//clientwire::service
type PingService interface {
}
`

	metadata, err := p.ParseSource("ping_service.go", source)
	require.NoError(t, err)
	require.Len(t, metadata.Services, 1)
	assert.False(t, metadata.Services[0].HasMethods())
	assert.Empty(t, metadata.Warnings)
}

func TestParseSource_MarkerOnStructIsWarning(t *testing.T) {
	p := NewParser()

	source := `package services

//clientwire::service
type UserServiceImpl struct {
	baseURL string
}
`

	metadata, err := p.ParseSource("user_service_impl.go", source)
	require.NoError(t, err)
	assert.Empty(t, metadata.Services)
	require.Len(t, metadata.Warnings, 1)
	assert.Contains(t, metadata.Warnings[0].Message, "only interfaces can be registered")
	assert.Contains(t, metadata.Warnings[0].Message, "UserServiceImpl")
}

func TestParseSource_MarkerOnUnexportedInterfaceIsWarning(t *testing.T) {
	p := NewParser()

	source := `package services

//clientwire::service
type userService interface {
	Ping() error
}
`

	metadata, err := p.ParseSource("user_service.go", source)
	require.NoError(t, err)
	assert.Empty(t, metadata.Services)
	require.Len(t, metadata.Warnings, 1)
	assert.Contains(t, metadata.Warnings[0].Message, "unexported")
}

func TestParseSource_PackageCommentMarkerIgnored(t *testing.T) {
	p := NewParser()

	source := `// Package services holds client interfaces.
//
//clientwire::service
package services
`

	metadata, err := p.ParseSource("doc.go", source)
	require.NoError(t, err)
	assert.Empty(t, metadata.Services)
	assert.Empty(t, metadata.Warnings)
}

func TestParseSource_GroupedTypeDeclaration(t *testing.T) {
	p := NewParser()

	source := `package services

type (
	//clientwire::service
	OrderService interface {
		ListOrders() ([]Order, error)
	}

	Order struct {
		ID string
	}
)
`

	metadata, err := p.ParseSource("orders.go", source)
	require.NoError(t, err)
	require.Len(t, metadata.Services, 1)
	assert.Equal(t, "OrderService", metadata.Services[0].Name)
	assert.Equal(t, []string{"[]Order"}, metadata.Services[0].Methods[0].Results)
}

func TestParseSource_EmbeddedInterfaceIsWarning(t *testing.T) {
	p := NewParser()

	source := `package services

import "io"

//clientwire::service
type StreamService interface {
	io.Closer

	Ping() error
}
`

	metadata, err := p.ParseSource("streams.go", source)
	require.NoError(t, err)
	require.Len(t, metadata.Services, 1)
	require.Len(t, metadata.Services[0].Methods, 1)
	require.Len(t, metadata.Warnings, 1)
	assert.Contains(t, metadata.Warnings[0].Message, "embedded interface")
}

func TestParseSource_CallAnnotationOnTypeIsWarning(t *testing.T) {
	p := NewParser()

	source := `package services

//clientwire::call GET /users
type UserService interface {
	Ping() error
}
`

	metadata, err := p.ParseSource("user_service.go", source)
	require.NoError(t, err)
	assert.Empty(t, metadata.Services)
	require.Len(t, metadata.Warnings, 1)
	assert.Contains(t, metadata.Warnings[0].Message, "call annotations belong on interface methods")
}

func TestParseSource_MethodWithoutErrorResult(t *testing.T) {
	p := NewParser()

	source := `package services

//clientwire::service
type UserService interface {
	GetUser(id string) string
}
`

	_, err := p.ParseSource("user_service.go", source)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must return error as its last result")
	assert.Contains(t, err.Error(), "UserService.GetUser")
}

func TestParseSource_MethodWithTooManyResults(t *testing.T) {
	p := NewParser()

	source := `package services

//clientwire::service
type UserService interface {
	GetUser(id string) (string, int, error)
}
`

	_, err := p.ParseSource("user_service.go", source)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most one value plus error")
}

func TestParseSource_MalformedAnnotationFails(t *testing.T) {
	p := NewParser()

	source := `package services

//clientwire::service
type UserService interface {
	//clientwire::call FETCH /users
	ListUsers() ([]string, error)
}
`

	_, err := p.ParseSource("user_service.go", source)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown HTTP method")
}

func TestParseDirectory(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "doc.go", `// Package services holds client interfaces.
//
//clientwire::service
package services
`)
	writeFile(t, dir, "user_service.go", `package services

//clientwire::service
type UserService interface {
	GetUser(id string) (string, error)
}
`)
	writeFile(t, dir, "user_service_impl.go", `package services

//clientwire::service
type UserServiceImpl struct{}
`)
	writeFile(t, dir, "user_service_test.go", `package services

//clientwire::service
type TestOnlyService interface {
	Ping() error
}
`)
	writeFile(t, dir, "autogen_clients.go", `package services

//clientwire::service
type GeneratedService interface {
	Ping() error
}
`)

	p := NewParser()
	metadata, err := p.ParseDirectory(dir)
	require.NoError(t, err)

	assert.Equal(t, "services", metadata.PackageName)
	require.Len(t, metadata.Services, 1)
	assert.Equal(t, "UserService", metadata.Services[0].Name)
	require.Len(t, metadata.Warnings, 1)
	assert.Contains(t, metadata.Warnings[0].Message, "UserServiceImpl")
}

func TestParseDirectory_OnlySkippedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "autogen_clients.go", `package services
`)

	p := NewParser()
	metadata, err := p.ParseDirectory(dir)
	require.NoError(t, err)
	assert.Empty(t, metadata.Services)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
