// Package service coordinates the family graph for callers.
//
// FamilyService owns a domain.FamilyGraph and guards it with a single
// mutex, since inference reads and writes across arbitrarily many records.
// Every mutation is logged with zap, counted in Prometheus metrics and
// published on the EventBus.
//
// # Events
//
// Subscribers receive person_added, person_ignored, partner_conflict,
// relations_rederived, population_imported and population_reloaded events.
// Slow subscribers are skipped rather than blocking the graph.
package service
