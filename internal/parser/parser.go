package parser

import (
	"fmt"
	"go/ast"
	goparser "go/parser"
	"go/token"
	"go/types"
	"os"
	"sort"
	"strings"

	"github.com/clientwire/clientwire/internal/annotations"
	"github.com/clientwire/clientwire/internal/models"
)

// Parser scans Go source for service interfaces carrying clientwire
// annotations.
type Parser struct {
	fileSet     *token.FileSet
	annotations *annotations.Parser
}

// NewParser creates a new source parser.
func NewParser() *Parser {
	return &Parser{
		fileSet:     token.NewFileSet(),
		annotations: annotations.NewParser(),
	}
}

// ParseSource parses source code from a string for testing purposes
func (p *Parser) ParseSource(filename, source string) (*models.PackageMetadata, error) {
	file, err := goparser.ParseFile(p.fileSet, filename, source, goparser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	metadata := &models.PackageMetadata{
		PackageName: file.Name.Name,
		PackagePath: "./",
	}

	if err := p.extractServices(file, filename, metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}

// ParseDirectory scans one directory for .go files and extracts the service
// interfaces. Test files and previously generated files are skipped.
func (p *Parser) ParseDirectory(path string) (*models.PackageMetadata, error) {
	pkgs, err := goparser.ParseDir(p.fileSet, path, includeSourceFile, goparser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse directory %s: %w", path, err)
	}

	// Generated output lives alongside the sources, so a directory holding
	// only skipped files is empty, not an error.
	if len(pkgs) == 0 {
		return &models.PackageMetadata{PackagePath: path}, nil
	}
	if len(pkgs) > 1 {
		return nil, fmt.Errorf("multiple packages found in directory %s", path)
	}

	var pkg *ast.Package
	var packageName string
	for name, astPkg := range pkgs {
		pkg = astPkg
		packageName = name
		break
	}

	metadata := &models.PackageMetadata{
		PackageName: packageName,
		PackagePath: path,
	}

	// Walk files in name order so discovery order is stable across runs.
	fileNames := make([]string, 0, len(pkg.Files))
	for fileName := range pkg.Files {
		fileNames = append(fileNames, fileName)
	}
	sort.Strings(fileNames)

	for _, fileName := range fileNames {
		if err := p.extractServices(pkg.Files[fileName], fileName, metadata); err != nil {
			return nil, err
		}
	}
	return metadata, nil
}

// includeSourceFile filters the directory listing down to hand-written,
// non-test Go sources.
func includeSourceFile(info os.FileInfo) bool {
	name := info.Name()
	if strings.HasSuffix(name, "_test.go") {
		return false
	}
	return !strings.HasPrefix(name, "autogen_")
}

// extractServices walks one file's type declarations and collects the
// interfaces carrying the service marker. Markers on anything that is not an
// exported top-level interface are reported as warnings and skipped; package
// comments are never inspected, so doc.go markers stay inert.
func (p *Parser) extractServices(file *ast.File, fileName string, metadata *models.PackageMetadata) error {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}

			annotation, err := p.markerFor(genDecl, typeSpec, fileName)
			if err != nil {
				return err
			}
			if annotation == nil {
				continue
			}
			if annotation.Type != annotations.ServiceAnnotation {
				metadata.Warn(fileName, annotation.Location.Line,
					"%s annotation on type %s ignored, call annotations belong on interface methods",
					annotation.Type, typeSpec.Name.Name)
				continue
			}

			ifaceType, ok := typeSpec.Type.(*ast.InterfaceType)
			if !ok {
				metadata.Warn(fileName, annotation.Location.Line,
					"service marker on %s ignored, only interfaces can be registered", typeSpec.Name.Name)
				continue
			}
			if !typeSpec.Name.IsExported() {
				metadata.Warn(fileName, annotation.Location.Line,
					"service marker on unexported interface %s ignored", typeSpec.Name.Name)
				continue
			}

			service := models.ServiceInterface{
				Name:        typeSpec.Name.Name,
				PackageName: file.Name.Name,
				FileName:    fileName,
				Line:        p.fileSet.Position(typeSpec.Pos()).Line,
			}
			methods, err := p.collectMethods(ifaceType, typeSpec.Name.Name, fileName, metadata)
			if err != nil {
				return err
			}
			service.Methods = methods
			metadata.Services = append(metadata.Services, service)
		}
	}
	return nil
}

// markerFor finds the clientwire annotation in a type declaration's doc
// comment. Grouped type declarations carry docs on the spec instead of the
// decl. Malformed annotations abort the scan.
func (p *Parser) markerFor(genDecl *ast.GenDecl, typeSpec *ast.TypeSpec, fileName string) (*annotations.ParsedAnnotation, error) {
	doc := genDecl.Doc
	if typeSpec.Doc != nil {
		doc = typeSpec.Doc
	}
	if doc == nil {
		return nil, nil
	}
	for _, comment := range doc.List {
		if !annotations.IsAnnotation(comment.Text) {
			continue
		}
		position := p.fileSet.Position(comment.Pos())
		return p.annotations.Parse(comment.Text, annotations.SourceLocation{
			File:   fileName,
			Line:   position.Line,
			Column: position.Column,
		})
	}
	return nil, nil
}

// collectMethods extracts the method set of a service interface. Every method
// must return error as its last result so the generated adapter has a failure
// channel; anything else aborts the scan with the offending location.
func (p *Parser) collectMethods(ifaceType *ast.InterfaceType, serviceName, fileName string, metadata *models.PackageMetadata) ([]models.Method, error) {
	var methods []models.Method
	if ifaceType.Methods == nil {
		return methods, nil
	}

	for _, field := range ifaceType.Methods.List {
		if len(field.Names) == 0 {
			metadata.Warn(fileName, p.fileSet.Position(field.Pos()).Line,
				"embedded interface in %s ignored, declare methods directly", serviceName)
			continue
		}

		funcType, ok := field.Type.(*ast.FuncType)
		if !ok {
			continue
		}
		methodName := field.Names[0].Name

		method := models.Method{Name: methodName}

		call, err := p.callFor(field, fileName)
		if err != nil {
			return nil, err
		}
		method.Call = call

		params := flattenFields(funcType.Params)
		if len(params) > 0 && params[0].Type == "context.Context" {
			method.HasContext = true
			params = params[1:]
		}
		method.Params = params

		results := flattenFields(funcType.Results)
		if len(results) == 0 || results[len(results)-1].Type != "error" {
			return nil, fmt.Errorf("%s: method %s.%s must return error as its last result",
				p.fileSet.Position(field.Pos()), serviceName, methodName)
		}
		if len(results) > 2 {
			return nil, fmt.Errorf("%s: method %s.%s returns %d values, at most one value plus error is supported",
				p.fileSet.Position(field.Pos()), serviceName, methodName, len(results))
		}
		for _, result := range results[:len(results)-1] {
			method.Results = append(method.Results, result.Type)
		}

		methods = append(methods, method)
	}
	return methods, nil
}

// callFor finds the call annotation in a method's doc comment, if any.
func (p *Parser) callFor(field *ast.Field, fileName string) (*models.CallSpec, error) {
	if field.Doc == nil {
		return nil, nil
	}
	for _, comment := range field.Doc.List {
		if !annotations.IsAnnotation(comment.Text) {
			continue
		}
		position := p.fileSet.Position(comment.Pos())
		annotation, err := p.annotations.Parse(comment.Text, annotations.SourceLocation{
			File:   fileName,
			Line:   position.Line,
			Column: position.Column,
		})
		if err != nil {
			return nil, err
		}
		if annotation.Type != annotations.CallAnnotation {
			return nil, fmt.Errorf("%s: %s annotation is not allowed on methods",
				annotation.Location, annotation.Type)
		}
		return &models.CallSpec{
			HTTPMethod: annotation.HTTPMethod,
			Path:       annotation.Path,
		}, nil
	}
	return nil, nil
}

// flattenFields expands a field list into one entry per declared name, so
// "a, b string" yields two parameters.
func flattenFields(list *ast.FieldList) []models.Param {
	if list == nil {
		return nil
	}
	var flat []models.Param
	for _, field := range list.List {
		typeName := types.ExprString(field.Type)
		if len(field.Names) == 0 {
			flat = append(flat, models.Param{Type: typeName})
			continue
		}
		for _, name := range field.Names {
			flat = append(flat, models.Param{Name: name.Name, Type: typeName})
		}
	}
	return flat
}
