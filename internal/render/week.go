package render

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Константы размеров и отступов
const (
	imageWidth       = 1120
	imageHeight      = 720
	headerHeight     = 70
	leftLabelsWidth  = 60
	legendWidth      = 130
	dayPaddingX      = 6
	minSlotHeight    = 14.0
	slotBorderRadius = 5.0
	shadowOffset     = 2.0
	totalDaysInWeek  = 7
	hourPaddingTop   = 1
	hourPaddingBot   = 1
	defaultMinHour   = 8
	defaultMaxHour   = 20
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 255}
	hourLabelColor   = color.RGBA{110, 115, 120, 255}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 90}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{225, 225, 225, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}

	slotOpenColor     = color.RGBA{133, 193, 85, 230}
	slotFullColor     = color.RGBA{255, 182, 193, 255}
	slotInactiveColor = color.RGBA{170, 170, 170, 200}
	slotTextColor     = color.RGBA{20, 24, 28, 255}
	slotFullTextColor = color.RGBA{120, 40, 50, 255}
	slotShadowColor   = color.RGBA{0, 0, 0, 20}
)

type weekBounds struct {
	start time.Time
	end   time.Time
}

type hourRange struct {
	start int
	end   int
	total int
}

// WeekImage рисует PNG с неделей слотов ментора. Слоты переводятся в часовой пояс weekStart.
func WeekImage(weekStart time.Time, slots []*model.MentorAvailability, now time.Time) ([]byte, error) {
	loc := weekStart.Location()
	week := normalizeToWeekBounds(weekStart)
	today := normalizeToDay(now.In(loc))
	highlightToday := !today.Before(week.start) && !today.After(week.end)

	slotsByDay := groupSlotsByDay(slots, loc)
	hours := calculateHourRange(slots, loc)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / totalDaysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, week)
	drawHourLabels(dc, hours, cellHeight)

	currentDate := week.start
	for dayIndex := 0; dayIndex < totalDaysInWeek; dayIndex++ {
		x := float64(leftLabelsWidth + dayIndex*dayWidth)
		isToday := highlightToday && currentDate.Equal(today)

		drawDayBackground(dc, x, dayWidth, dayHeight, dayIndex, isToday)
		drawDayHeader(dc, currentDate, x, dayWidth)
		drawHourLines(dc, x, dayWidth, hours, cellHeight)
		for _, slot := range slotsByDay[currentDate.Format("2006-01-02")] {
			drawSlot(dc, slot, loc, x, dayWidth, hours, cellHeight)
		}

		currentDate = currentDate.AddDate(0, 0, 1)
	}

	if highlightToday {
		drawCurrentTimeLine(dc, now.In(loc), hours, cellHeight, dayWidth)
	}
	drawLegend(dc, dayWidth)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func normalizeToWeekBounds(date time.Time) weekBounds {
	normalized := normalizeToDay(date)

	daysSinceMonday := int(normalized.Weekday()) - 1
	if normalized.Weekday() == time.Sunday {
		daysSinceMonday = 6
	}

	start := normalized.AddDate(0, 0, -daysSinceMonday)
	return weekBounds{start: start, end: start.AddDate(0, 0, 6)}
}

func normalizeToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func groupSlotsByDay(slots []*model.MentorAvailability, loc *time.Location) map[string][]*model.MentorAvailability {
	byDay := make(map[string][]*model.MentorAvailability)
	for _, slot := range slots {
		key := slot.StartDateTime.In(loc).Format("2006-01-02")
		byDay[key] = append(byDay[key], slot)
	}
	return byDay
}

// calculateHourRange определяет диапазон часов, в который попадают все слоты
func calculateHourRange(slots []*model.MentorAvailability, loc *time.Location) hourRange {
	minHour, maxHour := 24, 0

	for _, slot := range slots {
		start := slot.StartDateTime.In(loc)
		end := slot.EndDateTime.In(loc)
		endH := end.Hour()
		if end.Minute() > 0 {
			endH++
		}
		// Слот через полночь обрезаем концом дня
		if !isSameDay(start, end) {
			endH = 24
		}
		if start.Hour() < minHour {
			minHour = start.Hour()
		}
		if endH > maxHour {
			maxHour = endH
		}
	}

	if minHour == 24 {
		minHour, maxHour = defaultMinHour, defaultMaxHour
	}

	startHour := max(minHour-hourPaddingTop, 0)
	endHour := min(maxHour+hourPaddingBot, 24)

	return hourRange{start: startHour, end: endHour, total: endHour - startHour}
}

func isSameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func drawHeader(dc *gg.Context, week weekBounds) {
	title := fmt.Sprintf("%s - %s", week.start.Format("02 Jan 2006"), week.end.Format("02 Jan 2006"))
	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, float64(imageWidth)/2, float64(headerHeight)/4, 0.5, 0.5)
}

func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	dc.SetColor(hourLabelColor)
	for i := 0; i <= hours.total; i++ {
		y := float64(headerHeight) + float64(i)*cellHeight
		dc.DrawStringAnchored(fmt.Sprintf("%02d:00", (hours.start+i)%24), float64(leftLabelsWidth)-8, y, 1, 0.5)
	}
}

func drawDayBackground(dc *gg.Context, x float64, dayWidth, dayHeight, dayIndex int, isToday bool) {
	switch {
	case isToday:
		dc.SetColor(todayBgColor)
	case dayIndex%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, headerHeight, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

func drawDayHeader(dc *gg.Context, date time.Time, x float64, dayWidth int) {
	dc.SetColor(textColor)
	label := date.Format("Mon 02.01")
	dc.DrawStringAnchored(label, x+float64(dayWidth)/2, float64(headerHeight)-14, 0.5, 0.5)
}

func drawHourLines(dc *gg.Context, x float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)
	for i := 0; i <= hours.total; i++ {
		y := float64(headerHeight) + float64(i)*cellHeight
		dc.DrawLine(x, y, x+float64(dayWidth), y)
		dc.Stroke()
	}
}

// drawSlot рисует один слот: время и занятость
func drawSlot(dc *gg.Context, slot *model.MentorAvailability, loc *time.Location, x float64, dayWidth int, hours hourRange, cellHeight float64) {
	start := slot.StartDateTime.In(loc)
	end := slot.EndDateTime.In(loc)

	startHour := float64(start.Hour()) + float64(start.Minute())/60
	endHour := float64(end.Hour()) + float64(end.Minute())/60
	if !isSameDay(start, end) {
		endHour = 24
	}

	slotY := float64(headerHeight) + (startHour-float64(hours.start))*cellHeight
	slotHeight := max((endHour-startHour)*cellHeight, minSlotHeight)
	slotWidth := float64(dayWidth - dayPaddingX*2)

	fill, text := slotColors(slot)

	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, slotY+2+shadowOffset, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x+dayPaddingX, slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(darkenColor(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+dayPaddingX, slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Stroke()

	dc.SetColor(text)
	txtX := x + dayPaddingX + 6
	dc.DrawStringAnchored(start.Format("15:04")+"-"+end.Format("15:04"), txtX, slotY+14, 0, 0)
	if slotHeight > 30 {
		dc.DrawStringAnchored(fmt.Sprintf("%d/%d %s", slot.CurrentBookings, slot.MaxBookings, slot.SessionType), txtX, slotY+28, 0, 0)
	}
}

func slotColors(slot *model.MentorAvailability) (color.RGBA, color.RGBA) {
	switch {
	case !slot.IsActive:
		return slotInactiveColor, slotTextColor
	case slot.IsFull():
		return slotFullColor, slotFullTextColor
	default:
		return slotOpenColor, slotTextColor
	}
}

func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

func drawCurrentTimeLine(dc *gg.Context, now time.Time, hours hourRange, cellHeight float64, dayWidth int) {
	current := float64(now.Hour()) + float64(now.Minute())/60
	if current < float64(hours.start) || current > float64(hours.end) {
		return
	}

	y := float64(headerHeight) + (current-float64(hours.start))*cellHeight
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2)
	dc.DrawLine(leftLabelsWidth, y, float64(leftLabelsWidth+totalDaysInWeek*dayWidth), y)
	dc.Stroke()
}

func drawLegend(dc *gg.Context, dayWidth int) {
	items := []struct {
		label string
		clr   color.Color
	}{
		{"Open", slotOpenColor},
		{"Full", slotFullColor},
		{"Inactive", slotInactiveColor},
	}

	const boxW, boxH = 18.0, 12.0
	x := float64(leftLabelsWidth + totalDaysInWeek*dayWidth + 14)
	y := float64(imageHeight) - 90

	for _, item := range items {
		dc.SetColor(item.clr)
		dc.DrawRoundedRectangle(x, y, boxW, boxH, 3)
		dc.Fill()

		dc.SetColor(textColor)
		dc.DrawStringAnchored(item.label, x+boxW+8, y+boxH/2, 0, 0.5)
		y += boxH + 14
	}
}
