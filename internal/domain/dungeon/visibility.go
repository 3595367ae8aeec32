package dungeon

// LightRadius depends on whether the player still carries a burning light.
func LightRadius(p *Actor) int {
	if p != nil && p.LightName != "" && p.LightFuel > 0 {
		return LightRadiusLit
	}
	return LightRadiusDark
}

// RecomputeVisibility updates the persistent explored mask: every tile
// within the light radius of the player, plus the full extent of any lit
// room containing the player. The transient visible/lit state is the
// rendering layer's business and is never persisted.
func RecomputeVisibility(w *World) {
	p := w.Player
	if p == nil || w.Height == 0 {
		return
	}
	radius := LightRadius(p)
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			pos := Position{X: p.Position.X + dx, Y: p.Position.Y + dy}
			if w.InBounds(pos) {
				w.Explored[pos.Y][pos.X] = true
			}
		}
	}
	for idx, room := range w.Rooms {
		if !w.LitRooms[idx] || !room.Contains(p.Position) {
			continue
		}
		for y := room.Y1; y < room.Y2 && y < w.Height; y++ {
			for x := room.X1; x < room.X2 && x < w.Width; x++ {
				if y >= 0 && x >= 0 {
					w.Explored[y][x] = true
				}
			}
		}
	}
}
