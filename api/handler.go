package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/viktsys/cotacoes/analytics"
	"github.com/viktsys/cotacoes/ingest"
	"github.com/viktsys/cotacoes/models"
)

// FilterParams mirrors the sidebar selections of the dashboard as query
// parameters. Repeated parameters build up the membership sets; absent ones
// leave the dimension unrestricted. Dates are day-first (DD/MM/YYYY).
type FilterParams struct {
	Inicio            string   `form:"inicio"`
	Fim               string   `form:"fim"`
	Anos              []int    `form:"ano"`
	Meses             []int    `form:"mes"`
	Submercados       []string `form:"submercado"`
	Tipos             []string `form:"tipo"`
	Comercializadoras []string `form:"comercializadora"`
	Modalidades       []string `form:"modalidade"`
}

// Criteria converts the bound query into the filter engine's value. A range
// with a missing or unparsable bound degrades to no date restriction.
func (p FilterParams) Criteria() analytics.Criteria {
	c := analytics.Criteria{
		Anos:              p.Anos,
		Meses:             p.Meses,
		Submercados:       p.Submercados,
		Comercializadoras: p.Comercializadoras,
	}
	for _, t := range p.Tipos {
		c.Tipos = append(c.Tipos, models.CanonicalTipoEnergia(t))
	}
	for _, m := range p.Modalidades {
		c.Modalidades = append(c.Modalidades, models.CanonicalModalidade(m))
	}

	inicio := ingest.ParseDataCotacao(p.Inicio)
	fim := ingest.ParseDataCotacao(p.Fim)
	if inicio != nil && fim != nil {
		c.Inicio = inicio
		c.Fim = fim
	}
	return c
}

// Server serves analytical views over one immutable dataset snapshot.
type Server struct {
	ds *models.Dataset
}

func NewServer(ds *models.Dataset) *Server {
	return &Server{ds: ds}
}

const avisoSemResultados = "nenhuma cotação encontrada para os filtros selecionados"

func (s *Server) filteredView(c *gin.Context) (analytics.View, bool) {
	var params FilterParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return analytics.Filter(s.ds, params.Criteria()), true
}

func (s *Server) GetCotacoes(c *gin.Context) {
	view, ok := s.filteredView(c)
	if !ok {
		return
	}
	if view.Empty() {
		c.JSON(http.StatusOK, gin.H{"aviso": avisoSemResultados, "cotacoes": []models.Cotacao{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cotacoes": view})
}

func (s *Server) GetResumo(c *gin.Context) {
	view, ok := s.filteredView(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.Summary(view))
}

func (s *Server) GetMelhores(c *gin.Context) {
	var params FilterParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view := analytics.Filter(s.ds, params.Criteria())
	if view.Empty() {
		c.JSON(http.StatusOK, gin.H{"aviso": avisoSemResultados})
		return
	}
	c.JSON(http.StatusOK, gin.H{"melhores": analytics.BestPerYear(view, params.Anos)})
}

func (s *Server) GetMatriz(c *gin.Context) {
	view, ok := s.filteredView(c)
	if !ok {
		return
	}
	if view.Empty() {
		c.JSON(http.StatusOK, gin.H{"aviso": avisoSemResultados})
		return
	}
	c.JSON(http.StatusOK, analytics.Matrix(view))
}

func (s *Server) GetCurva(c *gin.Context) {
	view, ok := s.filteredView(c)
	if !ok {
		return
	}
	if view.Empty() {
		c.JSON(http.StatusOK, gin.H{"aviso": avisoSemResultados})
		return
	}
	mode := analytics.CurveMedia
	if c.Query("agg") == string(analytics.CurveMin) {
		mode = analytics.CurveMin
	}
	c.JSON(http.StatusOK, gin.H{"curva": analytics.ForwardCurve(view, mode)})
}

// DetalheParams selects one (year, energy type) group.
type DetalheParams struct {
	Ano  int    `form:"ano" binding:"required"`
	Tipo string `form:"tipo" binding:"required"`
}

func (s *Server) GetDetalhe(c *gin.Context) {
	var params DetalheParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, ok := s.filteredView(c)
	if !ok {
		return
	}
	detalhe, found := analytics.Breakdown(view, params.Ano, models.CanonicalTipoEnergia(params.Tipo))
	if !found {
		c.JSON(http.StatusOK, gin.H{"aviso": avisoSemResultados})
		return
	}
	c.JSON(http.StatusOK, detalhe)
}

func (s *Server) GetGrafico(c *gin.Context) {
	view, ok := s.filteredView(c)
	if !ok {
		return
	}
	if view.Empty() {
		c.JSON(http.StatusOK, gin.H{"aviso": avisoSemResultados, "cotacoes": []models.Cotacao{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cotacoes": analytics.DedupeForChart(view)})
}

// HistoricoParams identifies the exact product key of the drill-down.
// Referencia optionally carries the currently selected best price, in either
// plain or currency ("R$ 1.234,56") form.
type HistoricoParams struct {
	Comercializadora string `form:"comercializadora" binding:"required"`
	Tipo             string `form:"tipo" binding:"required"`
	Submercado       string `form:"submercado" binding:"required"`
	Ano              int    `form:"ano" binding:"required"`
	Referencia       string `form:"referencia"`
}

func (s *Server) GetHistorico(c *gin.Context) {
	var params HistoricoParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	historico := analytics.HistoryFor(s.ds, params.Comercializadora,
		models.CanonicalTipoEnergia(params.Tipo), params.Submercado, params.Ano)

	resp := gin.H{"historico": historico}
	if params.Referencia != "" {
		referencia, err := ingest.ParsePreco(params.Referencia)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid referencia price"})
			return
		}
		menores := analytics.CheaperThan(historico, referencia)
		resp["menores"] = menores
		resp["melhor_historico"] = len(menores) == 0
	}
	c.JSON(http.StatusOK, resp)
}

// SetupRoutes wires the analytical views over the loaded dataset.
func SetupRoutes(ds *models.Dataset) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	s := NewServer(ds)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "cotacoes": ds.Len()})
	})

	r.GET("/api/cotacoes", s.GetCotacoes)
	r.GET("/api/cotacoes/resumo", s.GetResumo)
	r.GET("/api/cotacoes/melhores", s.GetMelhores)
	r.GET("/api/cotacoes/matriz", s.GetMatriz)
	r.GET("/api/cotacoes/curva", s.GetCurva)
	r.GET("/api/cotacoes/detalhe", s.GetDetalhe)
	r.GET("/api/cotacoes/grafico", s.GetGrafico)
	r.GET("/api/cotacoes/historico", s.GetHistorico)

	return r
}
