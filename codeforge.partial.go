package codeforge

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// ResolvePartialPath resolves a partial name against inputFolder. Absolute
// names and an empty folder leave the name unchanged.
func ResolvePartialPath(inputFolder, name string) string {
	if inputFolder == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(inputFolder, name)
}

// PartialNotFoundText is the inline output for a partial file that does not
// exist.
func PartialNotFoundText(path string) string {
	return PartialNotFoundPrefix + path
}

// PartialErrorText is the inline output for a partial that failed to load,
// compile or render.
func PartialErrorText(path string, err error) string {
	return PartialRenderErrorPrefix + path + PartialDiagnosticNewline + diagnosticText(err)
}

// renderPartial resolves, compiles and renders a partial for parent.
//
// It never fails: a missing file or any load, compile or render error is
// turned into diagnostic text in place of the partial's output.
func (e *Engine) renderPartial(parent *renderState, name string, model any) string {
	path := ResolvePartialPath(parent.rctx.InputFolder, name)

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()):
		e.logger.Warn(LogMsgPartialNotFound,
			zap.String(LogFieldPartial, name),
			zap.String(LogFieldPath, path))
		return PartialNotFoundText(path)
	case err != nil:
		return e.partialFailed(path, NewPartialReadError(name, path, err))
	}

	// Keyed by resolved path: equal names under different input folders
	// never share an artifact.
	modelType := ModelTypeOf(model)
	key := PartialKey(path, modelType)

	if _, busy := parent.active[key]; busy {
		return e.partialFailed(path, NewPartialRecursionError(name, parent.depth))
	}
	if limit := e.config.maxPartialDepth; limit > 0 && parent.depth >= limit {
		return e.partialFailed(path, NewPartialDepthError(name, parent.depth))
	}

	artifact, err := e.cache.GetOrLoad(key, func() (string, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", NewPartialReadError(name, path, err)
		}
		return string(data), nil
	}, modelType)
	if err != nil {
		return e.partialFailed(path, err)
	}

	out, err := e.execute(artifact, parent.child(key, model))
	if err != nil {
		return e.partialFailed(path, err)
	}

	e.logger.Debug(LogMsgPartialResolved,
		zap.String(LogFieldPartial, name),
		zap.String(LogFieldPath, path),
		zap.Int(LogFieldDepth, parent.depth+1))

	return out
}

func (e *Engine) partialFailed(path string, err error) string {
	e.logger.Warn(LogMsgPartialFailed,
		zap.String(LogFieldPath, path),
		zap.Error(err))
	return PartialErrorText(path, err)
}
