// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package refresh builds and rewrites the persisted keyword index.
//
// The keyword list comes from the public sitemaps. SitemapFetcher downloads
// every sitemap concurrently, retrying each with exponential backoff, and
// extracts the slugs from the keyword URLs. A sitemap that still fails after
// its last attempt is logged and skipped.
//
// Refresher turns a slug list, fetched or imported from a file, into index
// entries and writes them to storage in batches:
//
//	refresher, err := refresh.NewRefresher(indexRepo, metaRepo,
//	    refresh.WithFetcher(fetcher),
//	    refresh.WithProgress(os.Stderr),
//	)
//	report, err := refresher.Run(ctx, false)
//
// The slug list is fingerprinted. When the fingerprint and entry count match
// what is stored, the write is skipped unless the caller forces it.
package refresh
