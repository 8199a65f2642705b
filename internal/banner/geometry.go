package banner

// ComputeInitialFrame returns the hidden rectangle for a banner: full screen
// width, the given height, parked just outside the visible area along the
// axis implied by direction.
func ComputeInitialFrame(position Position, direction Direction, screenWidth, screenHeight, height float64) Rect {
	frame := Rect{Width: screenWidth, Height: height}

	switch position {
	case PositionBottom:
		switch direction {
		case DirectionFromRight:
			frame.X, frame.Y = -screenWidth, screenHeight-height
		case DirectionFromLeft:
			frame.X, frame.Y = screenWidth, screenHeight-height
		default:
			frame.X, frame.Y = 0, screenHeight
		}
	default:
		switch direction {
		case DirectionFromRight:
			frame.X, frame.Y = -screenWidth, 0
		case DirectionFromLeft:
			frame.X, frame.Y = screenWidth, 0
		default:
			frame.X, frame.Y = 0, -height
		}
	}

	return frame
}

// ComputeVisibleOrigin returns the resting origin. Straight banners rest
// flush with their edge; horizontal banners keep currentY and move x to 0.
func ComputeVisibleOrigin(position Position, direction Direction, screenHeight, height, currentY float64) Point {
	if direction.Horizontal() {
		return Point{X: 0, Y: currentY}
	}
	if position == PositionBottom {
		return Point{X: 0, Y: screenHeight - height}
	}
	return Point{X: 0, Y: 0}
}

// layoutLabels positions the title and message regions inside a banner of
// the given width and height. With no message the title is recentered and
// the message region hidden.
func layoutLabels(position Position, width, height, statusBarInset float64, m Metrics, hasMessage bool) (title, message Rect, messageHidden bool) {
	title = Rect{X: m.InsetX, Width: width - m.InsetX, Height: m.RegionHeight}
	message = Rect{X: m.InsetX, Width: width - m.InsetX, Height: m.RegionHeight}

	if position == PositionTop {
		title.Y = statusBarInset
		message.Y = statusBarInset + m.RegionHeight + m.RegionGap
	} else {
		title.Y = m.BottomInset
		message.Y = m.RegionHeight * 2
	}

	if hasMessage {
		return title, message, false
	}

	title.Y = height / 2
	if position == PositionBottom {
		title.Y = height/2 - title.Height/2
	}
	return title, message, true
}
