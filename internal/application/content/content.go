// Package content 站点静态内容用例
//
// 作者介绍、读者评价、站点统计这类内容更新频率极低,
// 当前阶段直接内置在代码里,后续需要运营后台时再落库。
package content

import "context"

// AuthorInfo 作者介绍
type AuthorInfo struct {
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Bio         string   `json:"bio"`
	Photo       string   `json:"photo"`
	Credentials []string `json:"credentials"`
}

// Testimonial 读者评价
type Testimonial struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Avatar  string  `json:"avatar"`
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

// SiteStats 站点统计数字
type SiteStats struct {
	ReadersCount  int     `json:"readers_count"`
	BooksSold     int     `json:"books_sold"`
	AverageRating float64 `json:"average_rating"`
	Countries     int     `json:"countries"`
}

// ContentUseCase 静态内容查询用例
type ContentUseCase struct{}

// NewContentUseCase 创建静态内容用例
func NewContentUseCase() *ContentUseCase {
	return &ContentUseCase{}
}

// GetAuthor 作者介绍
func (uc *ContentUseCase) GetAuthor(ctx context.Context) *AuthorInfo {
	return &AuthorInfo{
		Name:  "María Fernández",
		Title: "Autora bestseller y coach de desarrollo personal",
		Bio: "Durante más de quince años, María ha ayudado a miles de lectores " +
			"a construir hábitos sólidos, recuperar el enfoque y liderar sin necesidad de un título. " +
			"Sus libros combinan investigación práctica con historias reales.",
		Photo: "/images/maria-fernandez.jpg",
		Credentials: []string{
			"Más de 500.000 libros vendidos",
			"Traducida a 12 idiomas",
			"Conferencista en 30 países",
		},
	}
}

// GetTestimonials 读者评价
func (uc *ContentUseCase) GetTestimonials(ctx context.Context) []Testimonial {
	return []Testimonial{
		{
			Name:    "Lucía Gómez",
			Country: "México",
			Avatar:  "/avatars/lucia.jpg",
			Rating:  5,
			Comment: "Hábitos Atómicos para Desarrolladores cambió mi forma de trabajar. Lo releo cada año.",
		},
		{
			Name:    "Andrés Pereira",
			Country: "Argentina",
			Avatar:  "/avatars/andres.jpg",
			Rating:  5,
			Comment: "El Arte de Enfocarse es el libro que necesitaba. Directo, práctico y sin relleno.",
		},
		{
			Name:    "Carmen Silva",
			Country: "España",
			Avatar:  "/avatars/carmen.jpg",
			Rating:  4.5,
			Comment: "Mentalidad de Crecimiento me acompañó en el cambio de carrera más difícil de mi vida.",
		},
	}
}

// GetStats 站点统计
func (uc *ContentUseCase) GetStats(ctx context.Context) *SiteStats {
	return &SiteStats{
		ReadersCount:  520000,
		BooksSold:     500000,
		AverageRating: 4.8,
		Countries:     30,
	}
}
