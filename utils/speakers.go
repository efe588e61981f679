package utils

import (
	"fmt"
	"strconv"
	"strings"

	"meetup-bot/database"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// SpeakerFuzzyFind matches a free-text query against speaker names and
// Telegram usernames.
func SpeakerFuzzyFind(query string) ([]database.Speaker, error) {
	speakers, err := database.SpeakerGetAll()
	if err != nil {
		return nil, err
	}

	var searchSpace []string
	for i, speaker := range speakers {
		if speaker.Name != "" {
			searchSpace = append(searchSpace, fmt.Sprintf("%d", i)+"||"+strings.ToLower(speaker.Name))
		}
		if speaker.TelegramUsername.Valid && speaker.TelegramUsername.String != "" {
			searchSpace = append(searchSpace, fmt.Sprintf("%d", i)+"||"+strings.ToLower(speaker.TelegramUsername.String))
		}
	}

	var (
		results []database.Speaker
		seen    = make(map[int]bool)
	)
	fuzzyResults := fuzzy.Find(strings.ToLower(query), searchSpace)
	for _, res := range fuzzyResults {
		info := strings.SplitN(res, "||", 2)
		index, err := strconv.Atoi(info[0])
		if err != nil || seen[index] {
			continue
		}
		seen[index] = true
		results = append(results, speakers[index])
	}

	return results, nil
}
