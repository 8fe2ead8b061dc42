package resume

// Clone returns a deep copy of doc that shares no slices with it.
func Clone(doc Document) (out Document) {
	out = Document{
		Contact: Contact{
			Name:  doc.Contact.Name,
			Email: doc.Contact.Email,
			Phone: doc.Contact.Phone,
			Links: cloneStrings(doc.Contact.Links),
		},
		Summary: doc.Summary,
		Skills:  cloneStrings(doc.Skills),
	}

	if doc.Experience != nil {
		out.Experience = make([]ExperienceEntry, len(doc.Experience))
		for i, entry := range doc.Experience {
			out.Experience[i] = ExperienceEntry{
				Title:        entry.Title,
				Organization: entry.Organization,
				DateRange:    entry.DateRange,
				Bullets:      cloneStrings(entry.Bullets),
			}
		}
	}

	if doc.Education != nil {
		out.Education = make([]EducationEntry, len(doc.Education))
		copy(out.Education, doc.Education)
	}

	return out
}

func cloneStrings(in []string) (out []string) {
	if in == nil {
		return out
	}
	out = make([]string, len(in))
	copy(out, in)
	return out
}
