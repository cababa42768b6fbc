package response

import (
	"fmt"
	"net/http"
)

type status struct {
	reason string
	// http11 marks codes that are only valid over HTTP/1.1 and fall back to
	// 200 on any other protocol.
	http11 bool
}

var statusCatalog = map[int]status{
	100: {reason: "Continue"},
	101: {reason: "Switching Protocols", http11: true},
	102: {reason: "Processing"},
	103: {reason: "Early Hints"},

	200: {reason: "OK"},
	201: {reason: "Created"},
	202: {reason: "Accepted"},
	203: {reason: "Non-Authoritative Information"},
	204: {reason: "No Content"},
	205: {reason: "Reset Content"},
	206: {reason: "Partial Content"},
	207: {reason: "Multi-Status"},
	208: {reason: "Already Reported"},
	226: {reason: "IM Used"},

	300: {reason: "Multiple Choices"},
	301: {reason: "Moved Permanently"},
	302: {reason: "Found"},
	303: {reason: "See Other"},
	304: {reason: "Not Modified"},
	305: {reason: "Use Proxy"},
	307: {reason: "Temporary Redirect"},
	308: {reason: "Permanent Redirect"},

	400: {reason: "Bad Request"},
	401: {reason: "Unauthorized"},
	402: {reason: "Payment Required"},
	403: {reason: "Forbidden"},
	404: {reason: "Not Found"},
	405: {reason: "Method Not Allowed"},
	406: {reason: "Not Acceptable"},
	407: {reason: "Proxy Authentication Required"},
	408: {reason: "Request Timeout"},
	409: {reason: "Conflict"},
	410: {reason: "Gone"},
	411: {reason: "Length Required"},
	412: {reason: "Precondition Failed"},
	413: {reason: "Payload Too Large"},
	414: {reason: "URI Too Long"},
	415: {reason: "Unsupported Media Type"},
	416: {reason: "Range Not Satisfiable"},
	417: {reason: "Expectation Failed"},
	418: {reason: "I'm a teapot"},
	421: {reason: "Misdirected Request"},
	422: {reason: "Unprocessable Entity"},
	423: {reason: "Locked"},
	424: {reason: "Failed Dependency"},
	425: {reason: "Too Early"},
	426: {reason: "Upgrade Required"},
	428: {reason: "Precondition Required"},
	429: {reason: "Too Many Requests"},
	431: {reason: "Request Header Fields Too Large"},
	451: {reason: "Unavailable For Legal Reasons"},

	500: {reason: "Internal Server Error"},
	501: {reason: "Not Implemented"},
	502: {reason: "Bad Gateway"},
	503: {reason: "Service Unavailable"},
	504: {reason: "Gateway Timeout"},
	505: {reason: "HTTP Version Not Supported"},
	506: {reason: "Variant Also Negotiates"},
	507: {reason: "Insufficient Storage"},
	508: {reason: "Loop Detected"},
	510: {reason: "Not Extended"},
	511: {reason: "Network Authentication Required"},
}

// resolveStatus maps code to the code actually sent and its status line.
// Unknown codes resolve to 500.
func resolveStatus(proto string, code int) (int, string) {
	st, ok := statusCatalog[code]
	if !ok {
		code = http.StatusInternalServerError
		st = statusCatalog[code]
	}
	if st.http11 && proto != "HTTP/1.1" {
		code = http.StatusOK
		st = statusCatalog[code]
	}
	return code, fmt.Sprintf("%s %d %s", proto, code, st.reason)
}

// bodyAllowed reports whether a response with code may carry a body.
func bodyAllowed(code int) bool {
	return code >= 200 && code != http.StatusNoContent && code != http.StatusNotModified
}
