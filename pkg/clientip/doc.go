// Package clientip extracts the client IP address from HTTP requests.
//
// Headers are checked in order, and the first valid address wins:
//  1. CF-Connecting-IP (Cloudflare)
//  2. DO-Connecting-IP (DigitalOcean)
//  3. X-Forwarded-For (leftmost entry)
//  4. X-Real-IP
//  5. RemoteAddr
//
// Addresses are validated with net.ParseIP and normalized; 0.0.0.0 is
// rejected. When nothing valid is found the raw RemoteAddr is returned.
//
//	log.Info("request", logger.ClientIP(clientip.GetIP(r)))
//
// The headers are client-controlled unless a trusted proxy sets them, so the
// result is fit for logging, not for access control.
package clientip
