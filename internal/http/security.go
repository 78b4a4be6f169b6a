package http

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
)

// securityMetrics counts security events since process start.
type securityMetrics struct {
	rateLimitHits      int64
	suspiciousRequests int64
}

// trustedProxies are the networks allowed to set forwarding headers. The
// service runs behind a reverse proxy on the shop LAN, so only private
// ranges and localhost qualify.
var trustedProxies = []*net.IPNet{
	mustCIDR("127.0.0.0/8"),
	mustCIDR("10.0.0.0/8"),
	mustCIDR("172.16.0.0/12"),
	mustCIDR("192.168.0.0/16"),
}

func mustCIDR(cidr string) *net.IPNet {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		panic(fmt.Sprintf("bad trusted proxy CIDR %s: %v", cidr, err))
	}
	return network
}

func fromTrustedProxy(ip net.IP) bool {
	for _, network := range trustedProxies {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// extractClientIP resolves the real client address. Forwarding headers are
// honored only when the direct peer is a trusted proxy; otherwise they are
// trivially spoofable and the socket address wins.
func extractClientIP(r *http.Request) string {
	directIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		directIP = r.RemoteAddr
	}

	parsed := net.ParseIP(directIP)
	if parsed == nil || !fromTrustedProxy(parsed) {
		return directIP
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if net.ParseIP(xri) != nil {
			return xri
		}
	}
	return directIP
}

// probePaths are fragments this API never serves; seeing one means a
// vulnerability scanner is walking the host.
var probePaths = []string{
	"../", "..\\", ".env", ".git", ".ssh",
	"wp-admin", "phpmyadmin", "admin.php", "config.php",
	"etc/passwd", "cmd.exe",
	"<script", "javascript:", "union select", "eval(",
}

// scannerAgents match known scanning tools. Plain curl and scripted
// clients are fine, the register frontend is not the only consumer.
var scannerAgents = []string{
	"sqlmap", "nikto", "nmap", "masscan", "gobuster", "dirb", "zgrab",
}

// detectSuspiciousRequest flags requests that look like scanner traffic.
func detectSuspiciousRequest(r *http.Request, metrics *securityMetrics) bool {
	suspicious := containsAny(strings.ToLower(r.URL.Path), probePaths) ||
		containsAny(strings.ToLower(r.URL.RawQuery), probePaths) ||
		containsAny(strings.ToLower(r.Header.Get("User-Agent")), scannerAgents)

	// Anything beyond a sale payload and a couple of query params fits
	// well under this.
	if len(r.URL.String()) > 2048 {
		suspicious = true
	}

	switch r.Method {
	case "TRACE", "TRACK", "CONNECT":
		suspicious = true
	}

	if suspicious && metrics != nil {
		atomic.AddInt64(&metrics.suspiciousRequests, 1)
	}
	return suspicious
}

func containsAny(s string, patterns []string) bool {
	if s == "" {
		return false
	}
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
