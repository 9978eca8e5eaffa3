package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/mcoot/cybersnake/internal/model"
)

// Field is a login form input
type Field int

const (
	FieldName Field = iota
	FieldPassword
)

// Screen layout. Each grid cell is two terminal columns wide so the
// board looks square.
const (
	boardTop     = 2
	boardLeft    = 0
	cellWidth    = 2
	sidebarGap   = 3
	maxBoardRows = 10
)

var (
	styleDefault = tcell.StyleDefault
	styleTitle   = tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true)
	styleBorder  = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleSnake   = tcell.StyleDefault.Foreground(tcell.ColorLime)
	styleHead    = tcell.StyleDefault.Foreground(tcell.ColorLime).Bold(true)
	styleFood    = tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	styleMuted   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleError   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleOK      = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleFocus   = tcell.StyleDefault.Reverse(true)
)

// Glyphs for board contents
const (
	glyphHead  = "@@"
	glyphBody  = "[]"
	glyphFood  = "<>"
	glyphEmpty = "  "
)

// drawText writes s starting at (x, y) and returns the column after it
func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) int {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

func drawBox(s tcell.Screen, left, top, width, height int, style tcell.Style) {
	right, bottom := left+width-1, top+height-1
	for x := left + 1; x < right; x++ {
		s.SetContent(x, top, tcell.RuneHLine, nil, style)
		s.SetContent(x, bottom, tcell.RuneHLine, nil, style)
	}
	for y := top + 1; y < bottom; y++ {
		s.SetContent(left, y, tcell.RuneVLine, nil, style)
		s.SetContent(right, y, tcell.RuneVLine, nil, style)
	}
	s.SetContent(left, top, tcell.RuneULCorner, nil, style)
	s.SetContent(right, top, tcell.RuneURCorner, nil, style)
	s.SetContent(left, bottom, tcell.RuneLLCorner, nil, style)
	s.SetContent(right, bottom, tcell.RuneLRCorner, nil, style)
}

// cellOrigin is the screen position of a grid cell's left column
func cellOrigin(c model.Cell) (int, int) {
	return boardLeft + 1 + c.X*cellWidth, boardTop + 1 + c.Y
}

// statusLine describes the login state to the player
func statusLine(state model.SessionState) (string, tcell.Style) {
	if state.Message != "" && state.Availability != model.AvailabilityChecking {
		style := styleError
		if state.Availability.CanStart() {
			style = styleMuted
		}
		return strings.ToUpper(state.Message), style
	}
	switch state.Availability {
	case model.AvailabilityChecking:
		if state.Message != "" {
			return strings.ToUpper(state.Message), styleMuted
		}
		return "CHECKING...", styleMuted
	case model.AvailabilityAvailable:
		return "NAME AVAILABLE - PRESS ENTER TO START", styleOK
	case model.AvailabilityAuthenticatedOK:
		return "WELCOME BACK - PRESS ENTER TO START", styleOK
	case model.AvailabilityAuthenticationFailed:
		return "INCORRECT PASSWORD", styleError
	case model.AvailabilityNameTaken:
		return "NAME ALREADY TAKEN", styleError
	case model.AvailabilityError:
		return "CONNECTION ERROR", styleError
	case model.AvailabilityInvalid:
		return "NAME OR PASSWORD NOT ACCEPTED", styleError
	default:
		return "ENTER A NAME AND PASSWORD", styleMuted
	}
}

// drawLogin renders the name and password form
func drawLogin(s tcell.Screen, state model.SessionState, focus Field) {
	drawText(s, 0, 0, styleTitle, "CYBERSNAKE")

	nameStyle, passStyle := styleDefault, styleDefault
	if focus == FieldName {
		nameStyle = styleFocus
	} else {
		passStyle = styleFocus
	}
	x := drawText(s, 0, 2, styleDefault, "NAME:     ")
	drawText(s, x, 2, nameStyle, fmt.Sprintf("%-20s", state.Name))
	x = drawText(s, 0, 3, styleDefault, "PASSWORD: ")
	drawText(s, x, 3, passStyle, fmt.Sprintf("%-20s", strings.Repeat("*", len([]rune(state.Password)))))

	text, style := statusLine(state)
	drawText(s, 0, 5, style, text)
	drawText(s, 0, 7, styleMuted, "TAB: SWITCH FIELD  ENTER: START  ESC: QUIT")

	drawLeaderboard(s, 0, 9, state)
}

// drawLeaderboard lists the top entries starting at (x, y)
func drawLeaderboard(s tcell.Screen, x, y int, state model.SessionState) {
	drawText(s, x, y, styleTitle, "HIGH SCORES")
	if len(state.Leaderboard) == 0 {
		drawText(s, x, y+1, styleMuted, "NO SCORES YET")
		return
	}
	for i, e := range state.Leaderboard {
		if i >= maxBoardRows {
			break
		}
		style := styleDefault
		if e.Name == state.Name {
			style = styleOK
		}
		drawText(s, x, y+1+i, style, fmt.Sprintf("%2d. %-20s %6d", i+1, e.Name, e.Score))
	}
}

// drawGame renders the board, the snake and the food
func drawGame(s tcell.Screen, game model.GameState, width, height int, player string) {
	title := "CYBERSNAKE"
	if player != "" {
		title += "  " + strings.ToUpper(player)
	}
	drawText(s, 0, 0, styleTitle, title)
	drawText(s, 0, 1, styleDefault, fmt.Sprintf("SCORE: %d", game.Score))

	drawBox(s, boardLeft, boardTop, width*cellWidth+2, height+2, styleBorder)

	if game.Phase != model.PhaseIdle {
		fx, fy := cellOrigin(game.Food)
		drawText(s, fx, fy, styleFood, glyphFood)
	}
	for i := len(game.Snake) - 1; i >= 0; i-- {
		x, y := cellOrigin(game.Snake[i])
		if i == 0 {
			drawText(s, x, y, styleHead, glyphHead)
		} else {
			drawText(s, x, y, styleSnake, glyphBody)
		}
	}
}

// drawGameOver renders the result panel beside the board
func drawGameOver(s tcell.Screen, game model.GameState, session model.SessionState, width int) {
	x := boardLeft + width*cellWidth + 2 + sidebarGap
	drawText(s, x, boardTop, styleError, "GAME OVER")
	drawText(s, x, boardTop+1, styleDefault, fmt.Sprintf("SCORE: %d", game.Score))
	if game.EndReason == model.EndReasonBoardFull {
		drawText(s, x, boardTop+2, styleOK, "BOARD CLEARED")
	}

	row := boardTop + 3
	switch {
	case session.LastSubmitted != nil:
		drawText(s, x, row, styleOK, fmt.Sprintf("BEST:  %d", session.LastSubmitted.Score))
	case session.Availability == model.AvailabilityError,
		session.Availability == model.AvailabilityNameTaken,
		session.Availability == model.AvailabilityInvalid:
		text, style := statusLine(session)
		drawText(s, x, row, style, text)
	default:
		drawText(s, x, row, styleMuted, "SUBMITTING...")
	}

	drawText(s, x, row+2, styleMuted, "R: RESTART  Q: QUIT")
	drawLeaderboard(s, x, row+4, session)
}
