// Package geo tags client addresses with a country code for request logs.
package geo

import (
	"fmt"
	"log"
	"net/netip"

	"github.com/oschwald/geoip2-golang/v2"
)

// Locator resolves IP addresses to ISO country codes. A nil *Locator or one
// opened without a database answers "" for every address.
type Locator struct {
	db *geoip2.Reader
}

// Open loads a GeoIP2/GeoLite2 City database. An empty path yields a
// disabled locator.
func Open(path string) (*Locator, error) {
	if path == "" {
		return &Locator{}, nil
	}
	db, err := geoip2.Open(path)
	if err != nil {
		return &Locator{}, fmt.Errorf("open geoip database %s: %w", path, err)
	}
	return &Locator{db: db}, nil
}

// Country returns the ISO code for ip, or "" when unknown.
func (l *Locator) Country(ip string) string {
	if l == nil || l.db == nil {
		return ""
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return ""
	}
	record, err := l.db.City(addr)
	if err != nil {
		log.Printf("Country: GeoIP lookup failed for %s: %v", ip, err)
		return ""
	}
	return record.Country.ISOCode
}

func (l *Locator) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}
