package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// TrustedProxies lists the reverse proxies whose forwarding headers are
// believed. Requests from anywhere else are identified by RemoteAddr.
type TrustedProxies struct {
	prefixes []netip.Prefix
}

// ParseTrustedProxies parses IPs and CIDR ranges. Single IPs become /32 or
// /128 prefixes.
func ParseTrustedProxies(entries []string) (TrustedProxies, error) {
	var tp TrustedProxies
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		prefix, err := netip.ParsePrefix(entry)
		if err != nil {
			ip, ipErr := netip.ParseAddr(entry)
			if ipErr != nil {
				return TrustedProxies{}, fmt.Errorf("invalid IP or CIDR format '%s'", entry)
			}
			prefix = netip.PrefixFrom(ip, ip.BitLen())
		}
		tp.prefixes = append(tp.prefixes, prefix)
	}
	return tp, nil
}

func (tp TrustedProxies) trusts(remoteAddr string) bool {
	ip, err := hostOf(remoteAddr)
	if err != nil {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	return tp.contains(addr)
}

func (tp TrustedProxies) contains(addr netip.Addr) bool {
	for _, p := range tp.prefixes {
		if p.Contains(addr.Unmap()) {
			return true
		}
	}
	return false
}

// ClientIP returns the address a request is attributed to. Forwarding
// headers are only read when the direct peer is a trusted proxy; then the
// right-most X-Forwarded-For hop outside the trusted ranges wins.
func (tp TrustedProxies) ClientIP(r *http.Request) string {
	if len(tp.prefixes) > 0 && tp.trusts(r.RemoteAddr) {
		if ip, ok := tp.forwardedFor(r.Header.Values("X-Forwarded-For")); ok {
			return ip
		}
		if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
			return ip.String()
		}
	} else if r.Header.Get("X-Forwarded-For") != "" {
		slog.Debug("ignoring X-Forwarded-For from untrusted peer",
			slog.String("remote_addr", r.RemoteAddr))
	}

	ip, err := hostOf(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// forwardedFor walks the X-Forwarded-For hops right to left. A malformed hop
// ends the walk without a result. When every hop is trusted the left-most
// one is returned.
func (tp TrustedProxies) forwardedFor(headers []string) (string, bool) {
	var hops []string
	for _, h := range headers {
		for _, hop := range strings.Split(h, ",") {
			if hop = strings.TrimSpace(hop); hop != "" {
				hops = append(hops, hop)
			}
		}
	}

	var last netip.Addr
	for i := len(hops) - 1; i >= 0; i-- {
		addr, err := netip.ParseAddr(hops[i])
		if err != nil {
			return "", false
		}
		addr = addr.Unmap()
		if !tp.contains(addr) {
			return addr.String(), true
		}
		last = addr
	}
	if last.IsValid() {
		return last.String(), true
	}
	return "", false
}

// hostOf strips the port from "host:port"; a bare IP is returned as is.
func hostOf(addr string) (string, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		if ip := net.ParseIP(addr); ip != nil {
			return ip.String(), nil
		}
		return "", fmt.Errorf("invalid address format: %s", addr)
	}
	return host, nil
}
