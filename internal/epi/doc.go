// Package epi defines the compartmental epidemic right-hand side solved
// by the sim package. A single closed, homogeneously mixed population is
// assumed: no births, deaths, or migration, so S+I+R stays constant.
package epi
