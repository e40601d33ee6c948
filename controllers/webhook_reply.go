package controllers

import "strings"

// guidanceReply is sent when nothing could be extracted, so the sender
// learns what a parseable message looks like.
const guidanceReply = "Maaf, kami belum menangkap ulasan dari pesan kamu. " +
	"Coba tulis seperti: \"Masjid Al-Falah Bandung bagus, rating 4/5, tempat wudhu bersih\"."

// composeSummaryReply builds the single acknowledgment for a whole batch:
// one block for reviews that were saved, one for masjid names we could not
// find in the catalog.
func composeSummaryReply(created []string, unresolved []string) string {
	if len(created) == 0 && len(unresolved) == 0 {
		return guidanceReply
	}

	var sb strings.Builder

	if len(created) > 0 {
		sb.WriteString("Jazakallahu khairan! Ulasan kamu sudah kami terima dan menunggu moderasi untuk:\n")
		for _, name := range created {
			sb.WriteString("- " + name + "\n")
		}
	}

	if len(unresolved) > 0 {
		if len(created) > 0 {
			sb.WriteString("\nYang belum kami temukan di katalog:\n")
		} else {
			sb.WriteString("Maaf, kami belum menemukan masjid berikut di katalog kami:\n")
		}
		for _, name := range unresolved {
			sb.WriteString("- " + name + "\n")
		}
		sb.WriteString("Tim kami akan segera menambahkannya.")
	}

	return strings.TrimSpace(sb.String())
}
