// Package filesdk bootstraps a file.API from configuration. Settings come
// from environment variables, optionally backed by a .env file:
//
//	FILE_SDK_MODE         auto (default), http or mock
//	FILE_API_URL          base URL of the service, e.g. http://panel:3002/api
//	FILE_API_TOKEN        session token sent in the "token" header
//	FILE_API_TIMEOUT      per-attempt timeout (default 10s)
//	FILE_API_MAX_RETRIES  retries for transient failures (default 3)
//	FILE_SDK_LOG_LEVEL    debug, info, warn, error or off (default off)
//	FILE_MOCK_SEED        JSON or YAML seed for the in-memory service
//
// In auto mode an HTTP client is built when FILE_API_URL is set, otherwise
// the in-memory service from pkg/file/mock is used.
package filesdk
