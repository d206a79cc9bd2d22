package llm

import "context"

type unconfiguredClient struct{}

// Unconfigured returns a Client that reports IsConfigured() == false and fails
// every call with a ConfigurationError.
func Unconfigured() Client {
	return unconfiguredClient{}
}

func (unconfiguredClient) GenerateText(context.Context, string, string) (string, error) {
	return "", &ConfigurationError{Component: "text generation"}
}

func (unconfiguredClient) RewriteText(context.Context, string, string) (string, error) {
	return "", &ConfigurationError{Component: "text rewriting"}
}

func (unconfiguredClient) IsConfigured() bool { return false }

func (unconfiguredClient) Close() error { return nil }

// IsUsable reports whether c is non-nil and configured.
func IsUsable(c Client) bool {
	return c != nil && c.IsConfigured()
}
