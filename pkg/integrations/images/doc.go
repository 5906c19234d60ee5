// Package images resolves a person ID to a displayable image reference.
//
// [Resolver] tries, in order:
//
//  1. the person's image values from the data source (a Commons file name,
//     a Commons URL or any http(s) URL), verified with a HEAD request;
//  2. a local asset named after the person ID in the assets directory.
//
// Commons references are normalized to Special:FilePath URLs with a width
// hint, so the image host serves a scaled thumbnail.
//
// [Resolver] implements the enrichment resolver contract and is usually
// wrapped in a cache before being handed to the pipeline.
package images
