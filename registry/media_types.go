package registry

// Media types and annotation keys for bundle artifacts in OCI registries.
const (
	// ArtifactType identifies translation bundles as an OCI 1.1 artifact
	// type.
	ArtifactType = "application/vnd.lingopack.bundle.v1"

	// MediaTypeBundle is the media type of the bundle document layer.
	MediaTypeBundle = "application/vnd.lingopack.bundle.v1+json"

	// AnnotationLanguage carries the bundle's language code on the
	// manifest.
	AnnotationLanguage = "com.lingopack.bundle.language"

	// AnnotationCoverage carries the bundle's translation coverage
	// (0-100) on the manifest. The bundle version uses the standard
	// org.opencontainers.image.version annotation.
	AnnotationCoverage = "com.lingopack.bundle.coverage"
)
