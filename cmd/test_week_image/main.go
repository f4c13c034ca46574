package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/Freeeeeet/nurse_mentorship/internal/render"
	"github.com/Freeeeeet/nurse_mentorship/internal/service"
)

// Рисует тестовую неделю слотов ментора в week.png
func main() {
	now := time.Now()
	weekStart := service.WeekStart(now)

	slot := func(id int64, day, hour, max, current int, active bool, kind model.SessionType) *model.MentorAvailability {
		start := weekStart.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour)
		return &model.MentorAvailability{
			ID:              id,
			MentorID:        1,
			StartDateTime:   start,
			EndDateTime:     start.Add(time.Hour),
			DurationMinutes: 60,
			MaxBookings:     max,
			CurrentBookings: current,
			SessionType:     kind,
			IsActive:        active,
		}
	}

	slots := []*model.MentorAvailability{
		slot(1, 0, 9, 1, 0, true, model.SessionTypeVideo),
		slot(2, 0, 14, 1, 1, true, model.SessionTypeVideo),
		slot(3, 1, 10, 3, 1, true, model.SessionTypeAudio),
		slot(4, 1, 16, 1, 0, false, model.SessionTypeVideo),
		slot(5, 2, 9, 2, 2, true, model.SessionTypeInPerson),
		slot(6, 2, 15, 1, 0, true, model.SessionTypeVideo),
		slot(7, 4, 11, 5, 2, true, model.SessionTypeVideo),
		slot(8, 4, 13, 1, 1, true, model.SessionTypeAudio),
	}

	imageData, err := render.WeekImage(weekStart, slots, now)
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	filename := "week.png"
	if err := os.WriteFile(filename, imageData, 0644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Изображение сохранено в %s\n", filename)
	fmt.Printf("Период: %s - %s\n", weekStart.Format("02.01.2006"), weekStart.AddDate(0, 0, 6).Format("02.01.2006"))
	fmt.Printf("Слотов: %d\n", len(slots))
}
