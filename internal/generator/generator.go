package generator

import (
	"fmt"
	"path/filepath"
	"unicode"

	"golang.org/x/tools/imports"

	"github.com/clientwire/clientwire/internal/models"
	"github.com/clientwire/clientwire/internal/templates"
)

// OutputFileName is the generated file written into each scanned package.
const OutputFileName = "autogen_clients.go"

// reservedNames are identifiers the adapter method bodies use themselves.
// Parameters colliding with them are renamed.
var reservedNames = map[string]bool{
	"a":          true,
	"ctx":        true,
	"out":        true,
	"err":        true,
	"context":    true,
	"clientwire": true,
}

// Generator renders adapter files from scanned package metadata.
type Generator struct{}

// NewGenerator creates a new code generator instance.
func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateClients renders the adapter file for one scanned package. Packages
// without services yield nil, not an error, so callers can skip them.
func (g *Generator) GenerateClients(metadata *models.PackageMetadata) (*models.GeneratedFile, error) {
	if metadata == nil || !metadata.HasServices() {
		return nil, nil
	}

	data := templates.ClientsFileData{PackageName: metadata.PackageName}
	serviceNames := make([]string, 0, len(metadata.Services))
	for _, service := range metadata.Services {
		data.Services = append(data.Services, buildServiceData(service, metadata.ImportPath))
		serviceNames = append(serviceNames, service.Name)
	}

	content, err := templates.RenderClients(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate clients for package %s: %w", metadata.PackageName, err)
	}

	filePath := filepath.Join(metadata.PackagePath, OutputFileName)

	// goimports both formats the output and drops imports an adapter-less
	// rendering would leave unused.
	formatted, err := imports.Process(filePath, []byte(content), nil)
	if err != nil {
		return nil, fmt.Errorf("generated clients for package %s are not valid Go: %w", metadata.PackageName, err)
	}

	return &models.GeneratedFile{
		PackageName: metadata.PackageName,
		FilePath:    filePath,
		Content:     string(formatted),
		Services:    serviceNames,
	}, nil
}

func buildServiceData(service models.ServiceInterface, importPath string) templates.ServiceData {
	data := templates.ServiceData{
		Name:        service.Name,
		ImportPath:  importPath,
		AdapterName: adapterName(service.Name),
	}
	for _, method := range service.Methods {
		data.Methods = append(data.Methods, buildMethodData(method))
	}
	return data
}

func buildMethodData(method models.Method) templates.MethodData {
	data := templates.MethodData{
		Name:       method.Name,
		HasContext: method.HasContext,
	}
	if len(method.Results) == 1 {
		data.Result = method.Results[0]
	}
	if method.Call != nil {
		data.HTTPMethod = method.Call.HTTPMethod
		data.Path = method.Call.Path
	}
	for i, param := range method.Params {
		data.Params = append(data.Params, templates.ParamData{
			Name: paramName(param.Name, i),
			Type: param.Type,
		})
	}
	return data
}

// adapterName derives the unexported adapter identifier, UserService becomes
// userServiceClient.
func adapterName(interfaceName string) string {
	runes := []rune(interfaceName)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes) + "Client"
}

// paramName keeps the source parameter name unless it is anonymous or
// collides with an identifier the adapter body uses.
func paramName(name string, position int) string {
	if name == "" || name == "_" {
		return fmt.Sprintf("arg%d", position)
	}
	if reservedNames[name] {
		return name + "Arg"
	}
	return name
}
