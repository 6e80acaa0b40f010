package services

import "github.com/custodia-labs/docdig/internal/core/domain"

// LinkerDirectives returns the loader configuration for the platform:
// an $ORIGIN rpath where the loader supports it, nothing otherwise.
//
// Apple-family targets get nothing. An @loader_path rpath would be the
// equivalent there; it is not emitted until the packaging side needs it.
func LinkerDirectives(p domain.Platform) []domain.Directive {
	if !p.SupportsOriginRPath {
		return nil
	}
	return []domain.Directive{domain.LinkArg(domain.OriginRPathArg)}
}
