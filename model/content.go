package model

// The content accessors below give decks, courses and resources a common
// shape for the access policy gate.

func (d *FlashcardDeck) ContentOwner() Owner { return d.Owner }
func (d *FlashcardDeck) ContentIsPublic() bool { return d.IsPublic }

func (c *Course) ContentOwner() Owner { return c.Owner }
func (c *Course) ContentIsPublic() bool { return c.IsPublic }

func (r *Resource) ContentOwner() Owner { return r.Owner }
func (r *Resource) ContentIsPublic() bool { return r.IsPublic }
