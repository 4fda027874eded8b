// Package ident builds deterministic entityIds from (kind, qualifiedName)
// pairs. It is the single place this construction happens:
// Pass 1 parsers and Pass 2 resolvers both import it so that a resolver
// can reconstruct the exact id a parser would have produced for the same
// declaration, which is the contract cross-file resolution depends on.
package ident

import (
	"strconv"
	"strings"

	"github.com/relgraph/codegraph/model"
)

// Build returns the entityId for (kind, qualifiedName). It is a plain,
// readable concatenation rather than a hash: entityIds are meant to be
// grep-able in a persisted graph, and determinism only requires that the
// same (kind, qualifiedName) always produce the same string, not that
// the string be short.
func Build(kind model.Kind, qualifiedName string) string {
	return strings.ToLower(string(kind)) + ":" + qualifiedName
}

// File returns the entityId for a File node.
func File(normalizedAbsolutePath string) string {
	return Build(model.KindFile, normalizedAbsolutePath)
}

// Container returns the entityId for a class/interface/struct/enum-like
// declaration scoped to a file (qualifiedName = filePath ":" name).
func Container(kind model.Kind, filePath, name string) string {
	return Build(kind, filePath+":"+name)
}

// PackageScoped returns the entityId for a declaration qualified by
// package or namespace rather than file (qualifiedName = pkg "." name).
func PackageScoped(kind model.Kind, pkgOrNamespace, name string) string {
	return Build(kind, pkgOrNamespace+"."+name)
}

// FunctionLike returns the entityId for a function declaration, function
// expression, or arrow function assigned to a variable. The trailing
// line disambiguates multiple same-named function-likes in one file.
func FunctionLike(kind model.Kind, filePath, name string, startLine int) string {
	return Build(kind, filePath+":"+name+":"+strconv.Itoa(startLine))
}

// Method returns the entityId for a method. No line number: method names
// are unique within their container.
func Method(kind model.Kind, filePath, parentName, methodName string) string {
	return Build(kind, filePath+":"+parentName+"."+methodName)
}

// Parameter returns the entityId for a parameter, scoped to its parent
// function/method's entityId.
func Parameter(parentFuncEntityID, paramName string) string {
	return Build(model.KindParameter, parentFuncEntityID+":"+paramName)
}

// Variable returns the entityId for a variable declaration.
func Variable(kind model.Kind, filePath, name string, startLine int) string {
	return Build(kind, filePath+":"+name+":"+strconv.Itoa(startLine))
}

// ImportLike returns the entityId for an import/include/using declaration.
func ImportLike(kind model.Kind, filePath, specifier string, startLine int) string {
	return Build(kind, filePath+":"+specifier+":"+strconv.Itoa(startLine))
}

// Relationship returns the entityId for an edge. callSiteLine is optional
// (pass 0 to omit) and disambiguates multiple call edges between the same
// two symbols.
func Relationship(typ model.RelType, sourceID, targetID string, callSiteLine int) string {
	qn := sourceID + ":" + targetID
	if callSiteLine > 0 {
		qn += ":" + strconv.Itoa(callSiteLine)
	}
	return strings.ToLower(string(typ)) + ":" + qn
}

// CatchTarget returns the synthetic target entityId for a HANDLES_ERROR
// edge with a named catch binding.
func CatchTarget(funcEntityID, bindingName string, catchLine int) string {
	return Build(model.KindParameter, funcEntityID+":catch:"+bindingName+":"+strconv.Itoa(catchLine))
}

// ErrorHandlerTarget returns a synthetic `<funcEntityID>:error_handler:<line>`
// id for a catch with no binding. The TS/JS resolver does not use it: its
// HANDLES_ERROR edges for such catches target the enclosing function.
func ErrorHandlerTarget(funcEntityID string, catchLine int) string {
	return funcEntityID + ":error_handler:" + strconv.Itoa(catchLine)
}

// NormalizePath forward-slash-normalizes a path for use as the qualifying
// component of an entityId.
func NormalizePath(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}
