package config

const (
	// DefaultSearchQuery scopes discovery to the support-relevant sections of the target site.
	DefaultSearchQuery = "site:aven.com/support OR site:aven.com/contact OR site:aven.com/faq " +
		"OR site:aven.com/about OR site:aven.com/reviews OR site:aven.com/education " +
		"OR site:aven.com/products OR site:aven.com/blog"

	// IndexDimension must match the embedding model output for every upsert and query.
	IndexDimension = 1536

	// IndexMetric is fixed at index creation time.
	IndexMetric = "cosine"

	// FallbackAnswer is what the model is told to say when the context is insufficient.
	FallbackAnswer = "I'm not sure based on the current information."
)
