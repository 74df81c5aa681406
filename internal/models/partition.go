package models

import "strings"

// Partition is a named logical grouping of cities used as a geo-distribution
// hint for the storage layer.
type Partition struct {
	Name   string
	Cities []string
}

// PartitionMap preserves the first-seen order of partitions and the order of
// cities within each partition, so worker assignment is deterministic.
type PartitionMap []Partition

// DefaultPartitionMap returns the built-in three-region mapping used when no
// partition pairs are given on the command line.
func DefaultPartitionMap() PartitionMap {
	return PartitionMap{
		{Name: "us_east", Cities: []string{"new york", "boston", "washington dc"}},
		{Name: "us_west", Cities: []string{"san francisco", "seattle", "los angeles"}},
		{Name: "eu_west", Cities: []string{"amsterdam", "paris", "rome"}},
	}
}

// ParsePartitionPairs builds a PartitionMap from pairs of the form
// "<partition>:<city>". Only the first colon separates the pair; any further
// colons belong to the city name. A pair without a colon is a ConfigError.
func ParsePartitionPairs(pairs []string) (PartitionMap, error) {
	if len(pairs) == 0 {
		return DefaultPartitionMap(), nil
	}

	var pm PartitionMap
	index := make(map[string]int)

	for _, pair := range pairs {
		name, city, found := strings.Cut(pair, ":")
		if !found {
			return nil, NewConfigError("malformed partition pair %q, expected <partition>:<city>", pair)
		}

		i, ok := index[name]
		if !ok {
			i = len(pm)
			index[name] = i
			pm = append(pm, Partition{Name: name})
		}
		pm[i].Cities = append(pm[i].Cities, city)
	}

	return pm, nil
}

// Cities flattens the map into a single ordered city list.
func (pm PartitionMap) Cities() []string {
	var cities []string
	for _, p := range pm {
		cities = append(cities, p.Cities...)
	}
	return cities
}
