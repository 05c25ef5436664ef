// Package outreach provides a browser-driven outreach bot for a classifieds
// marketplace. It collects listing links from search result pages, visits
// each listing, identifies the seller, and sends a templated message to
// sellers that have not been contacted before. Progress is checkpointed to
// flat files so a crashed or restarted run resumes where it left off.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/, toml/).
package outreach
