// Package integrations provides HTTP clients for the external collaborators
// of the render pipeline.
//
// # Overview
//
// Each collaborator has its own subpackage:
//
//   - [wikibase]: people records from a Wikibase SPARQL query service
//   - [images]: display images from Wikimedia Commons or a local asset directory
//
// # Shared Infrastructure
//
// The [Client] type provides HTTP functionality used by both:
//
//   - JSON response caching through [cache.Cache]
//   - Retry with exponential backoff for transient failures
//   - Client-side rate limiting with golang.org/x/time/rate
//   - Status mapping: 404 becomes [ErrNotFound], 429 [ErrRateLimited],
//     5xx and connection failures a retryable [ErrNetwork]
//   - Request metrics through observability.HTTP hooks
//
// [wikibase]: github.com/matzehuels/lineage/pkg/integrations/wikibase
// [images]: github.com/matzehuels/lineage/pkg/integrations/images
package integrations
