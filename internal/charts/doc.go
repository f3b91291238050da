// Package charts renders the mpox bar charts as PNG files with gonum/plot.
//
// Six figures are produced: case and death totals per region, cases and
// deaths of the most recently updated countries, the top countries by cases
// and by deaths, and the percentage change in cases per country. Missing
// counts are drawn as zero-height bars. An empty input still yields a file
// with axes and no bars.
package charts
